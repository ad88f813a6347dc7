package watch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/watch"
	"github.com/stretchr/testify/require"
)

const wait = time.Second

func TestLocalPublishSubscribe(t *testing.T) {
	// Arrange
	hub := watch.NewLocal()
	videos := make(chan struct{}, 10)
	exams := make(chan struct{}, 10)

	cancelVideos, err := hub.Subscribe(aula.CollectionVideos, func() { videos <- struct{}{} })
	require.Nil(t, err)
	cancelExams, err := hub.Subscribe(aula.CollectionExams, func() { exams <- struct{}{} })
	require.Nil(t, err)
	defer cancelExams()

	// Act
	require.Nil(t, hub.Publish(context.Background(), aula.CollectionVideos))

	// Assert
	select {
	case <-videos:
	case <-time.After(wait):
		t.Fatal("no notice for videos")
	}
	require.Empty(t, exams)

	// Act
	cancelVideos()
	cancelVideos()
	require.Nil(t, hub.Publish(context.Background(), aula.CollectionVideos))

	// Assert
	require.Equal(t, 0, hub.Subscribers(aula.CollectionVideos))
	require.Equal(t, 1, hub.Subscribers(aula.CollectionExams))
	select {
	case <-videos:
		t.Fatal("notice after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalInvalidCollection(t *testing.T) {
	hub := watch.NewLocal()

	_, err := hub.Subscribe("courses", func() {})
	require.ErrorIs(t, err, aula.ErrNotValid)
	require.ErrorIs(t, hub.Publish(context.Background(), "courses"), aula.ErrNotValid)
}

type snapshots struct {
	mu   sync.Mutex
	got  [][]string
	errs []error
	ch   chan struct{}
}

func newSnapshots() *snapshots { return &snapshots{ch: make(chan struct{}, 10)} }

func (s *snapshots) deliver(items []string, err error) {
	s.mu.Lock()
	s.got = append(s.got, items)
	s.errs = append(s.errs, err)
	s.mu.Unlock()
	s.ch <- struct{}{}
}

func (s *snapshots) await(t *testing.T) {
	t.Helper()

	select {
	case <-s.ch:
	case <-time.After(wait):
		t.Fatal("no snapshot delivered")
	}
}

func (s *snapshots) last() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.got[len(s.got)-1], s.errs[len(s.errs)-1]
}

func TestSnapshot(t *testing.T) {
	// Arrange
	hub := watch.NewLocal()
	var (
		mu    sync.Mutex
		items = []string{"a"}
	)
	list := func(context.Context) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), items...), nil
	}
	snaps := newSnapshots()

	// Act
	cancel, err := watch.Snapshot(context.Background(), hub, aula.CollectionVideos, list, snaps.deliver)

	// Assert
	require.Nil(t, err)
	snaps.await(t)
	got, err := snaps.last()
	require.Nil(t, err)
	require.Equal(t, []string{"a"}, got)

	// Act
	mu.Lock()
	items = append(items, "b")
	mu.Unlock()
	require.Nil(t, hub.Publish(context.Background(), aula.CollectionVideos))

	// Assert
	snaps.await(t)
	got, _ = snaps.last()
	require.Equal(t, []string{"a", "b"}, got)

	// Act
	cancel()
	cancel()
	require.Nil(t, hub.Publish(context.Background(), aula.CollectionVideos))

	// Assert
	require.Equal(t, 0, hub.Subscribers(aula.CollectionVideos))
	select {
	case <-snaps.ch:
		t.Fatal("snapshot after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSnapshotContextDone(t *testing.T) {
	// Arrange
	hub := watch.NewLocal()
	ctx, cancelCtx := context.WithCancel(context.Background())
	snaps := newSnapshots()
	list := func(context.Context) ([]string, error) { return nil, errors.New("boom") }

	cancel, err := watch.Snapshot(ctx, hub, aula.CollectionExams, list, snaps.deliver)
	require.Nil(t, err)
	defer cancel()
	snaps.await(t)
	_, err = snaps.last()
	require.NotNil(t, err)

	// Act
	cancelCtx()

	// Assert
	require.Eventually(t, func() bool {
		return hub.Subscribers(aula.CollectionExams) == 0
	}, wait, 10*time.Millisecond)
}
