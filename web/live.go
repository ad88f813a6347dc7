package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/http/session"
	"github.com/castellanoconmh/aula/logger"
	"github.com/castellanoconmh/aula/watch"
)

// A frame is one server-sent event.
type frame struct {
	event string
	data  []byte
}

// frames holds the latest frame not yet written.
// A newer frame replaces an unwritten older one.
type frames struct {
	mu      sync.Mutex
	pending *frame
	ready   chan struct{}
}

func newFrames() *frames { return &frames{ready: make(chan struct{}, 1)} }

func (f *frames) put(fr frame) {
	f.mu.Lock()
	f.pending = &fr
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

func (f *frames) take() (frame, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending == nil {
		return frame{}, false
	}

	fr := *f.pending
	f.pending = nil
	return fr, true
}

// getLive streams a collection to the admin panel as server-sent events.
// A "snapshot" event carries the whole collection, first on connect and again after every change.
// An "error" event means the collection could not be read; the stream stays open.
func (h *Handler) getLive(w http.ResponseWriter, r *http.Request) {
	c := aula.Collection(mux.Vars(r)["collection"])
	if c.Valid() != nil {
		h.notFound(w, r)
		return
	}

	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("cannot clear write deadline", &logger.LogContext{Error: err, Request: r})
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := newFrames()
	var (
		stop func()
		err  error
	)
	switch c {
	case aula.CollectionAccessCodes:
		stop, err = subscribe(ctx, h.hub, c, h.codes.List, out)
	case aula.CollectionExams:
		stop, err = subscribe(ctx, h.hub, c, h.course.ListExams, out)
	case aula.CollectionVideos:
		stop, err = subscribe(ctx, h.hub, c, h.course.ListVideos, out)
	}
	if err != nil {
		h.Err(w, r, err)
		return
	}
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Warn("cannot stream", &logger.LogContext{Error: err, Request: r})
		return
	}

	ping := time.NewTicker(h.keepAlive)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case <-out.ready:
			fr, ok := out.take()
			if !ok {
				continue
			}
			if err := writeFrame(w, fr); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// subscribe queues a snapshot frame of c into out now and after every change.
func subscribe[T any](
	ctx context.Context,
	hub watch.Hub,
	c aula.Collection,
	list func(context.Context) ([]T, error),
	out *frames,
) (func(), error) {
	return watch.Snapshot(ctx, hub, c, list, func(items []T, err error) {
		if err != nil {
			b, _ := json.Marshal(map[string]string{"collection": c.String(), "error": session.RetryMsg})
			out.put(frame{event: "error", data: b})
			return
		}

		if items == nil {
			items = []T{}
		}

		b, err := json.Marshal(map[string]any{"collection": c, "items": items})
		if err != nil {
			b, _ = json.Marshal(map[string]string{"collection": c.String(), "error": session.RetryMsg})
			out.put(frame{event: "error", data: b})
			return
		}
		out.put(frame{event: "snapshot", data: b})
	})
}

func writeFrame(w http.ResponseWriter, fr frame) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "event: %s\n", fr.event)
	for _, line := range bytes.Split(fr.data, []byte("\n")) {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteByte('\n')

	_, err := b.WriteTo(w)
	return err
}
