package aula_test

import (
	"testing"

	"github.com/castellanoconmh/aula"
	"github.com/stretchr/testify/require"
)

func TestToolboxFilter(t *testing.T) {
	some := []aula.ToolAction{{Method: "POST", Name: "Generate code", URL: "/admin/codes"}}
	for _, tc := range []struct {
		name   string
		input  aula.Toolbox
		output aula.Toolbox
	}{
		{"Nil", nil, make(aula.Toolbox, 0)},
		{"Zero", make(aula.Toolbox, 0), make(aula.Toolbox, 0)},
		{"Filter-All", make(aula.Toolbox, 4), make(aula.Toolbox, 0)},
		{
			"From-4-To-1",
			aula.Toolbox{
				{}, {}, {Actions: some},
				{Actions: some, Collection: aula.CollectionAccessCodes},
			},
			aula.Toolbox{{Actions: some, Collection: aula.CollectionAccessCodes}},
		},
		{
			"Keep-All",
			aula.Toolbox{
				{Actions: some, Collection: aula.CollectionVideos},
				{Actions: some, Collection: aula.CollectionExams},
			},
			aula.Toolbox{
				{Actions: some, Collection: aula.CollectionVideos},
				{Actions: some, Collection: aula.CollectionExams},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.output, tc.input.Filter())
		})
	}
}
