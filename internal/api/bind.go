package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// errInvalidBody wraps every reason a request body was rejected.
var errInvalidBody = errors.New("invalid request body")

// formPayload is implemented by request bodies that can also arrive
// as application/x-www-form-urlencoded.
type formPayload interface {
	fromForm(values url.Values) error
}

// bindAndValidate decodes the body into dst (JSON or form) and runs the
// struct's validator tags.
func (s *Server) bindAndValidate(r *http.Request, dst formPayload) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")) //nolint:errcheck // empty or malformed falls through to JSON

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %w", errInvalidBody, err)
		}
		if err := dst.fromForm(r.PostForm); err != nil {
			return fmt.Errorf("%w: %w", errInvalidBody, err)
		}
	case "multipart/form-data":
		// ParseMultipartForm also fills PostForm with the non-file parts.
		if err := r.ParseMultipartForm(maxRequestBodySize); err != nil {
			return fmt.Errorf("%w: %w", errInvalidBody, err)
		}
		if err := dst.fromForm(r.PostForm); err != nil {
			return fmt.Errorf("%w: %w", errInvalidBody, err)
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", errInvalidBody)
			}
			return fmt.Errorf("%w: %w", errInvalidBody, err)
		}
	}

	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	return nil
}

// authorized reports whether the request carries the configured admin key.
// An empty configured key authorizes nothing.
func (s *Server) authorized(r *http.Request) bool {
	if s.auth.AdminKey == "" {
		return false
	}
	key := r.Header.Get(s.auth.Header)
	if key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.auth.AdminKey)) == 1
}

// flexID accepts an id as a JSON number or a numeric JSON string.
type flexID int64

func (f *flexID) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("id %s is not a valid string", raw)
		}
		raw = s
	}
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("id %q is not an integer", raw)
	}
	*f = flexID(n)
	return nil
}

// parseID parses a positive integer id from a query or form value.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q is not an integer", raw)
	}
	if id < 1 {
		return 0, fmt.Errorf("id %d is not positive", id)
	}
	return id, nil
}

// messagePayload is the body of POST /message.
type messagePayload struct {
	Message string `json:"message" validate:"required"`
}

func (p *messagePayload) fromForm(v url.Values) error {
	p.Message = v.Get("message")
	return nil
}

// messageUpdatePayload is the body of PUT /message.
type messageUpdatePayload struct {
	ID      flexID `json:"id" validate:"required,gt=0"`
	Message string `json:"message" validate:"required"`
}

func (p *messageUpdatePayload) fromForm(v url.Values) error {
	p.Message = v.Get("message")
	if raw := v.Get("id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		p.ID = flexID(id)
	}
	return nil
}

// languagePayload is the body of POST /choice and POST /vote.
type languagePayload struct {
	Language string `json:"language" validate:"required,max=64"`
}

func (p *languagePayload) fromForm(v url.Values) error {
	p.Language = v.Get("language")
	return nil
}
