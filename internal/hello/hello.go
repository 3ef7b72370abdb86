// Package hello implements the hello-world greeting predictor.
package hello

import (
	"context"
	"sync/atomic"

	"github.com/apex-x/predictkit/internal/predictor"
	"github.com/apex-x/predictkit/internal/schema"
)

const (
	Name = "hello-world"

	// Prefix is the greeting stored by Setup.
	Prefix = "hello"

	nameInput       = "name"
	nameDescription = "What is your name?"
)

// Predictor greets callers by name. The zero value is usable but must be set
// up before Greet or Predict succeed.
type Predictor struct {
	prefix atomic.Pointer[string]
}

func New() *Predictor {
	return &Predictor{}
}

// Factory adapts New for predictor.Registry.
func Factory() predictor.Predictor {
	return New()
}

// Setup stores the greeting prefix. Repeated calls leave the same prefix.
func (p *Predictor) Setup(_ context.Context) error {
	prefix := Prefix
	p.prefix.Store(&prefix)
	return nil
}

// Greet returns the prefix, one space, then name.
func (p *Predictor) Greet(name string) (string, error) {
	prefix := p.prefix.Load()
	if prefix == nil {
		return "", predictor.ErrNotSetUp
	}
	return *prefix + " " + name, nil
}

func (p *Predictor) Predict(_ context.Context, inputs predictor.Inputs) (any, error) {
	name, err := inputs.String(nameInput)
	if err != nil {
		return nil, err
	}
	return p.Greet(name)
}

func (p *Predictor) Signature() schema.Signature {
	return schema.Signature{
		Inputs: []schema.Field{{
			Name:        nameInput,
			Description: nameDescription,
			Type:        schema.String,
			Required:    true,
		}},
		Output: schema.String,
	}
}
