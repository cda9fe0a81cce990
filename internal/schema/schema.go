// Package schema holds the versioned JSON Schemas of every document the
// gateway writes and validates rendered documents against them.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Version is the output schema version carried in every schema $id.
const Version = "v1"

const baseURL = "https://mt5gateway.local/schemas/" + Version + "/"

// Document kinds, one per output shape.
const (
	KindCandle       = "candle"
	KindTick         = "tick"
	KindTradeHistory = "trade_history"
	KindOpenTrades   = "open_trades"
	KindTrade        = "trade"
	KindConnect      = "connect"
	KindAccount      = "account"
	KindError        = "error"
)

// Kinds lists every document kind with an embedded schema.
var Kinds = []string{
	KindCandle, KindTick, KindTradeHistory, KindOpenTrades,
	KindTrade, KindConnect, KindAccount, KindError,
}

//go:embed schemas/*.json
var files embed.FS

// Validator checks documents against the compiled schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every embedded schema.
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	for _, kind := range Kinds {
		raw, err := files.ReadFile("schemas/" + kind + ".json")
		if err != nil {
			return nil, fmt.Errorf("schema %s missing: %w", kind, err)
		}
		if err := c.AddResource(baseURL+kind+".json", bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("schema %s invalid: %w", kind, err)
		}
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(Kinds))}
	for _, kind := range Kinds {
		s, err := c.Compile(baseURL + kind + ".json")
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", kind, err)
		}
		v.schemas[kind] = s
	}
	return v, nil
}

// Validate checks a rendered JSON document of the given kind.
func (v *Validator) Validate(kind string, doc []byte) error {
	s, ok := v.schemas[kind]
	if !ok {
		return fmt.Errorf("no schema for document kind %q", kind)
	}
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	if err := s.Validate(value); err != nil {
		return fmt.Errorf("%s document violates schema %s: %w", kind, Version, err)
	}
	return nil
}
