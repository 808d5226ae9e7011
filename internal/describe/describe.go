// Package describe produces short marketing descriptions for raffle prizes.
//
// The remote generator is optional. Callers go through Resilient, which falls back
// to a local template whenever the remote call cannot produce text.
package describe

import (
	"context"
	"fmt"
)

// Describer writes a short description for a product in a category.
type Describer interface {
	Describe(ctx context.Context, name, category string) (string, error)
}

// Template is the local, deterministic describer.
type Template struct{}

func (Template) Describe(_ context.Context, name, category string) (string, error) {
	return Fallback(name, category), nil
}

// Fallback is the template text used when no generated description is available.
func Fallback(name, category string) string {
	return fmt.Sprintf(
		"%s: um produto incrível na categoria %s, perfeito para quem busca qualidade e inovação. Ideal para uso diário e uma excelente opção de presente.",
		name, category,
	)
}
