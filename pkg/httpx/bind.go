package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
)

// MaxBodyBytes caps request bodies read by ReadFields.
const MaxBodyBytes = 1 << 20

// ErrBadBody is returned when the request body cannot be decoded.
var ErrBadBody = errors.New("httpx: malformed request body")

// Fields holds flat string fields read from a request body.
type Fields map[string]string

// Get returns the named field or "".
func (f Fields) Get(name string) string { return f[name] }

// ReadFields reads a flat object from a JSON, urlencoded or multipart body.
// Non-string JSON scalars are stringified; nested values are ignored.
func ReadFields(w http.ResponseWriter, r *http.Request) (Fields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return readJSONFields(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
	}

	out := make(Fields, len(r.PostForm))
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out, nil
}

func readJSONFields(r *http.Request) (Fields, error) {
	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
	}

	out := make(Fields, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			out[k] = t
		case json.Number:
			out[k] = t.String()
		case bool:
			out[k] = strconv.FormatBool(t)
		}
	}
	return out, nil
}
