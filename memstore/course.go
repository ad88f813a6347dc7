package memstore

import (
	"context"

	"github.com/castellanoconmh/aula"
)

func (s *Store) CreateExam(ctx context.Context, e *aula.Exam) error {
	if err := done(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&e.Model)
	s.exams[e.ID] = *e
	return nil
}

func (s *Store) CreateVideo(ctx context.Context, v *aula.Video) error {
	if err := done(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&v.Model)
	s.videos[v.ID] = *v
	return nil
}

func (s *Store) DeleteExam(ctx context.Context, id uint) error {
	if err := done(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exams[id]; !ok {
		return notFound("exam", id)
	}

	delete(s.exams, id)
	return nil
}

func (s *Store) DeleteVideo(ctx context.Context, id uint) error {
	if err := done(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[id]; !ok {
		return notFound("video", id)
	}

	delete(s.videos, id)
	return nil
}

func (s *Store) ListExams(ctx context.Context) ([]aula.Exam, error) {
	if err := done(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return sorted(s.exams, func(e aula.Exam) uint { return e.ID }), nil
}

func (s *Store) ListVideos(ctx context.Context) ([]aula.Video, error) {
	if err := done(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return sorted(s.videos, func(v aula.Video) uint { return v.ID }), nil
}
