package req_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/http/req"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorsError(t *testing.T) {
	// Arrange
	var v req.ValidationErrors

	// Act
	actual := v.Error()

	// Assert
	require.Zero(t, actual)

	// Arrange
	v = append(
		v,
		req.ValidationError{
			Field: "title",
			Rule:  "required; string",
		},
		req.ValidationError{
			Field: "url",
			Got:   "ftp://example.com",
			Rule:  "httpurl; string",
		},
	)

	expected := strings.Join([]string{
		`field="title" rule="required; string" got="<nil>"`,
		`field="url" rule="httpurl; string" got="ftp://example.com"`,
	}, "\n")

	// Act
	actual = v.Error()

	// Assert
	require.Equal(t, expected, actual)
}

func TestValidationErrorsMarshalJSON(t *testing.T) {
	// Arrange
	var v req.ValidationErrors

	// Act
	actual, err := json.Marshal(v)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "{}", string(actual))

	// Arrange
	v = append(v, req.ValidationError{
		Field: "title",
		Rule:  "required; string",
		Got:   "",
	})

	expected := `{"validationErrors":[{"field":"title","got":"","rule":"required; string"}]}`

	// Act
	actual, err = json.Marshal(v)

	// Assert
	require.Nil(t, err)
	require.Equal(t, expected, string(actual))
}

func TestValidationErrorsUnwrap(t *testing.T) {
	require.ErrorIs(t, req.ValidationErrors{}, aula.ErrNotValid)
}
