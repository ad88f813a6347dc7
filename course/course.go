// Package course manages the videos and exams students see on their dashboard.
package course

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/logger"
)

// DefaultTimeout bounds every store call.
const DefaultTimeout = 5 * time.Second

// ErrWrite means an admin change could not be stored.
var ErrWrite = errors.New("could not save changes")

// A Store persists videos and exams.
// Delete methods return aula.ErrNotFound if no record has the id.
type Store interface {
	CreateExam(ctx context.Context, e *aula.Exam) error
	CreateVideo(ctx context.Context, v *aula.Video) error
	DeleteExam(ctx context.Context, id uint) error
	DeleteVideo(ctx context.Context, id uint) error
	ListExams(ctx context.Context) ([]aula.Exam, error)
	ListVideos(ctx context.Context) ([]aula.Video, error)
}

// A Publisher announces that a collection changed.
type Publisher interface {
	Publish(ctx context.Context, c aula.Collection) error
}

// A Catalog is everything an entitled student can open.
type Catalog struct {
	Exams  []aula.Exam  `json:"exams"`
	Videos []aula.Video `json:"videos"`
}

// A Service is the admin-facing CRUD over course material
// and the student-facing Catalog.
type Service struct {
	logger  logger.Logger
	pub     Publisher
	store   Store
	timeout time.Duration
}

// NewService constructs a Service. pub and l may be nil.
func NewService(store Store, pub Publisher, l logger.Logger) *Service {
	return &Service{logger: l, pub: pub, store: store, timeout: DefaultTimeout}
}

// AddVideo stores a video titled title, hosted at rawURL.
func (s *Service) AddVideo(ctx context.Context, title, rawURL string) (aula.Video, error) {
	v := aula.Video{Title: strings.TrimSpace(title), URL: strings.TrimSpace(rawURL)}
	if err := validate(v.Title, v.URL); err != nil {
		return aula.Video{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.CreateVideo(ctx, &v); err != nil {
		return aula.Video{}, s.writeErr(err)
	}

	s.publish(ctx, aula.CollectionVideos)
	return v, nil
}

// ListVideos returns every video, oldest first.
func (s *Service) ListVideos(ctx context.Context) ([]aula.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.store.ListVideos(ctx)
}

// DeleteVideo removes the video with id once the admin has confirmed.
func (s *Service) DeleteVideo(ctx context.Context, id uint, confirmed bool) error {
	return s.delete(ctx, aula.CollectionVideos, id, confirmed, s.store.DeleteVideo)
}

// AddExam stores an exam titled title, taken at link.
func (s *Service) AddExam(ctx context.Context, title, link string) (aula.Exam, error) {
	e := aula.Exam{Title: strings.TrimSpace(title), Link: strings.TrimSpace(link)}
	if err := validate(e.Title, e.Link); err != nil {
		return aula.Exam{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.CreateExam(ctx, &e); err != nil {
		return aula.Exam{}, s.writeErr(err)
	}

	s.publish(ctx, aula.CollectionExams)
	return e, nil
}

// ListExams returns every exam, oldest first.
func (s *Service) ListExams(ctx context.Context) ([]aula.Exam, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.store.ListExams(ctx)
}

// DeleteExam removes the exam with id once the admin has confirmed.
func (s *Service) DeleteExam(ctx context.Context, id uint, confirmed bool) error {
	return s.delete(ctx, aula.CollectionExams, id, confirmed, s.store.DeleteExam)
}

// Catalog lists videos and exams together.
func (s *Service) Catalog(ctx context.Context) (Catalog, error) {
	videos, err := s.ListVideos(ctx)
	if err != nil {
		return Catalog{}, err
	}

	exams, err := s.ListExams(ctx)
	if err != nil {
		return Catalog{}, err
	}

	return Catalog{Exams: exams, Videos: videos}, nil
}

func (s *Service) delete(
	ctx context.Context,
	c aula.Collection,
	id uint,
	confirmed bool,
	fn func(context.Context, uint) error,
) error {
	if !confirmed {
		return aula.ErrUnconfirmed
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := fn(ctx, id); err != nil {
		if errors.Is(err, aula.ErrNotFound) {
			return err
		}

		return s.writeErr(err)
	}

	s.publish(ctx, c)
	return nil
}

func (s *Service) publish(ctx context.Context, c aula.Collection) {
	if s.pub == nil {
		return
	}

	if err := s.pub.Publish(ctx, c); err != nil && s.logger != nil {
		s.logger.Warn("failed publishing change", &logger.LogContext{
			Data:  map[string]any{"collection": c},
			Error: err,
		})
	}
}

func (s *Service) writeErr(err error) error {
	if s.logger != nil {
		s.logger.Error("failed writing course material", &logger.LogContext{Error: err})
	}

	return fmt.Errorf("%w: %s", ErrWrite, err)
}

// validate requires a title and an absolute http(s) link.
func validate(title, link string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", aula.ErrNotValid)
	}

	u, err := url.ParseRequestURI(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not a web address", aula.ErrNotValid, link)
	}

	return nil
}
