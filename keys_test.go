package aula_test

import (
	"context"
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/stretchr/testify/require"
)

func TestByKeyUnique(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    []aula.Key
		expected []aula.Key
	}{
		{"Nil", nil, []aula.Key{}},
		{"Zero-Value", []aula.Key{}, []aula.Key{}},
		{"Many-Zero", make([]aula.Key, 99), []aula.Key{}},
		{"Sorted", []aula.Key{"a", "c", "e", "d"}, []aula.Key{"a", "c", "d", "e"}},
		{"Uniqued", []aula.Key{"a", "a", "a"}, []aula.Key{"a"}},
		{"Filtered-Zero-Value", []aula.Key{"", "a", "", "b", ""}, []aula.Key{"a", "b"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual := aula.ByKey(tc.input).UniqueSort()
			require.Equal(t, tc.expected, []aula.Key(actual))
		})
	}
}

func TestAppProps(t *testing.T) {
	// Arrange
	ctx := aula.NewAppPropsContext(context.Background(), aula.AppProps{"tab": "videos", "n": 1})

	// Act
	ctx = aula.NewAppPropsContext(ctx, aula.AppProps{"tab": "codes"})
	actual := aula.AppPropsFromContext(ctx)

	// Assert
	require.Equal(t, aula.AppProps{"tab": "codes", "n": 1}, actual)
	require.Equal(t, aula.AppProps{}, aula.AppPropsFromContext(context.Background()))
}
