package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/castellanoconmh/aula"
)

// maxFormBytes caps the size of a form body read by ParseForm.
const maxFormBytes = 1 << 20

// A Parser decodes request payloads into structs and validates them.
type Parser struct {
	dec formDecoder
	validator
}

func NewParser() *Parser {
	return &Parser{
		dec:       newFormDecoder(),
		validator: newValidator(),
	}
}

// ParseBody decodes into a pointer to a struct the JSON data in *http.Request.Body.
// If successful, ParseBody runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// ParseBody reads the entire r.Body and can't be read from again.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	var ourFault *json.InvalidUnmarshalError
	err := json.NewDecoder(body).Decode(structPtr)
	if errors.As(err, &ourFault) {
		return fmt.Errorf("aula/http/req: %w: ParseBody called with non-pointer: %s", aula.ErrBadAny, err)
	}

	if err != nil {
		return fmt.Errorf("aula/http/req: %w: failed decoding request body: %s", aula.ErrBadFormat, err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("aula/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseForm decodes the url-encoded body of a POST into a pointer to a struct
// and validates it, like ParseQueryParams.
func (p *Parser) ParseForm(r *http.Request, structPtr any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("aula/http/req: %w: failed parsing form: %s", aula.ErrBadFormat, err)
	}

	return p.ParseQueryParams(r.PostForm, structPtr)
}

// ParseQueryParams decodes into a pointer to a struct the query param data in *http.Request.URL.Query.
// If successful, ParseQueryParams runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if err := p.dec.decode(structPtr, params); err != nil {
		return fmt.Errorf("aula/http/req: failed decoding values: %w", err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("aula/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}
