package course_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/course"
	"github.com/castellanoconmh/aula/memstore"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	got []aula.Collection
}

func (r *recorder) Publish(_ context.Context, c aula.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.got = append(r.got, c)
	return nil
}

type brokenStore struct {
	*memstore.Store
}

func (brokenStore) CreateVideo(context.Context, *aula.Video) error { return errors.New("disk full") }
func (brokenStore) DeleteExam(context.Context, uint) error         { return errors.New("disk full") }

func TestAddVideo(t *testing.T) {
	// Arrange
	pub := new(recorder)
	svc := course.NewService(memstore.New(), pub, nil)

	// Act
	v, err := svc.AddVideo(context.Background(), " Lección 1 ", "https://youtu.be/abc123")

	// Assert
	require.Nil(t, err)
	require.NotZero(t, v.ID)
	require.Equal(t, "Lección 1", v.Title)
	require.Equal(t, []aula.Collection{aula.CollectionVideos}, pub.got)

	videos, err := svc.ListVideos(context.Background())
	require.Nil(t, err)
	require.Equal(t, []aula.Video{v}, videos)
}

func TestAddInvalid(t *testing.T) {
	svc := course.NewService(memstore.New(), nil, nil)

	for _, tc := range []struct {
		name  string
		title string
		link  string
	}{
		{"No-Title", "  ", "https://youtu.be/abc123"},
		{"No-Link", "Lección 1", ""},
		{"Relative-Link", "Lección 1", "/videos/1"},
		{"Bad-Scheme", "Lección 1", "javascript:alert(1)"},
		{"No-Host", "Lección 1", "https:///path"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddVideo(context.Background(), tc.title, tc.link)
			require.ErrorIs(t, err, aula.ErrNotValid)

			_, err = svc.AddExam(context.Background(), tc.title, tc.link)
			require.ErrorIs(t, err, aula.ErrNotValid)
		})
	}

	catalog, err := svc.Catalog(context.Background())
	require.Nil(t, err)
	require.Empty(t, catalog.Videos)
	require.Empty(t, catalog.Exams)
}

func TestDelete(t *testing.T) {
	// Arrange
	pub := new(recorder)
	svc := course.NewService(memstore.New(), pub, nil)

	keep, err := svc.AddExam(context.Background(), "Examen A1", "https://forms.gle/a1")
	require.Nil(t, err)
	drop, err := svc.AddExam(context.Background(), "Examen A2", "https://forms.gle/a2")
	require.Nil(t, err)

	// Act
	err = svc.DeleteExam(context.Background(), drop.ID, false)

	// Assert
	require.ErrorIs(t, err, aula.ErrUnconfirmed)
	exams, err := svc.ListExams(context.Background())
	require.Nil(t, err)
	require.Len(t, exams, 2)

	// Act
	err = svc.DeleteExam(context.Background(), drop.ID, true)

	// Assert
	require.Nil(t, err)
	exams, err = svc.ListExams(context.Background())
	require.Nil(t, err)
	require.Equal(t, []aula.Exam{keep}, exams)
	require.Len(t, pub.got, 3)

	// Act
	err = svc.DeleteVideo(context.Background(), drop.ID, true)

	// Assert
	require.ErrorIs(t, err, aula.ErrNotFound)
}

func TestWriteFailureLeavesListsUnchanged(t *testing.T) {
	// Arrange
	store := brokenStore{memstore.New()}
	pub := new(recorder)
	svc := course.NewService(store, pub, nil)

	exam := aula.Exam{Title: "Examen", Link: "https://forms.gle/a1"}
	require.Nil(t, store.CreateExam(context.Background(), &exam))

	// Act
	_, err := svc.AddVideo(context.Background(), "Lección 1", "https://youtu.be/abc123")

	// Assert
	require.ErrorIs(t, err, course.ErrWrite)

	// Act
	err = svc.DeleteExam(context.Background(), exam.ID, true)

	// Assert
	require.ErrorIs(t, err, course.ErrWrite)
	catalog, err := svc.Catalog(context.Background())
	require.Nil(t, err)
	require.Empty(t, catalog.Videos)
	require.Equal(t, []aula.Exam{exam}, catalog.Exams)
	require.Empty(t, pub.got)
}
