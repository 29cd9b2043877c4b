package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/phrazzld/postdesk/internal/domain"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

// ErrEmptyBody is returned when a payload was expected but the body is empty.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes the request body into the given value.
// The body must hold exactly one JSON value.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return decode(newBodyDecoder(w, r), v)
}

// DecodePostFields decodes a JSON object body into a free-form field map.
// Anything other than an object is rejected. Numbers are kept as json.Number
// so large integers in extra fields survive unchanged.
func DecodePostFields(w http.ResponseWriter, r *http.Request) (domain.PostFields, error) {
	dec := newBodyDecoder(w, r)
	dec.UseNumber()

	var fields domain.PostFields
	if err := decode(dec, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("invalid JSON body: expected an object")
	}
	return fields, nil
}

func newBodyDecoder(w http.ResponseWriter, r *http.Request) *json.Decoder {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
}

func decode(dec *json.Decoder, v interface{}) error {
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	err := dec.Decode(&struct{}{})
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		err = errors.New("unexpected data after JSON value")
	}
	return fmt.Errorf("invalid JSON body: %w", err)
}
