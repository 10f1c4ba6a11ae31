// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/pantry/config"
	"github.com/shashiranjanraj/pantry/pkg/validate"
)

// ErrMalformed wraps every decoding failure so handlers can answer 400.
var ErrMalformed = errors.New("malformed request body")

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at config.MaxBodyBytes.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(w http.ResponseWriter, r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("%w: request body too large (max %d bytes)", ErrMalformed, maxErr.Limit)
		case errors.Is(err, io.EOF):
			return nil, fmt.Errorf("%w: request body is empty", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformed, err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}
