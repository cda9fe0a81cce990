package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"mt5gateway/internal/ports"
	"mt5gateway/internal/schema"
)

// ErrorDocument is the {"error": ...} document.
type ErrorDocument struct {
	Error string `json:"error"`
}

type flusher interface {
	Flush() error
}

// Serializer renders the single output document of an invocation.
type Serializer struct {
	validator *schema.Validator
	logger    ports.Logger
}

// NewSerializer creates a serializer. A nil validator disables schema checks.
func NewSerializer(validator *schema.Validator, logger ports.Logger) *Serializer {
	return &Serializer{validator: validator, logger: logger}
}

// Write encodes doc as one newline-terminated JSON document. When a validator is
// configured the rendered bytes are checked against the schema for kind first;
// a violation is logged and the document is written anyway.
func (s *Serializer) Write(ctx context.Context, w io.Writer, kind string, doc interface{}) error {
	raw, err := Encode(doc)
	if err != nil {
		return err
	}

	if s.validator != nil {
		if err := s.validator.Validate(kind, raw); err != nil {
			s.logger.Error(ctx, err, "Output document failed schema validation", map[string]interface{}{"kind": kind})
		}
	}

	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("writing %s document: %w", kind, err)
	}
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Encode renders doc as compact JSON followed by a newline. HTML characters are
// left unescaped so symbols and comments pass through verbatim.
func Encode(doc interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding output document: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteError writes an {"error": msg} document without schema checks. It is used
// before a Gateway exists, e.g. for command line errors.
func WriteError(w io.Writer, msg string) error {
	raw, err := Encode(ErrorDocument{Error: msg})
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
