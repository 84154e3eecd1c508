package mock

import (
	"context"
	"sync/atomic"

	"github.com/glyphforge/glyphforge/internal/domain"
	"github.com/glyphforge/glyphforge/internal/generator"
)

// Ensure Generator implements generator.Generator.
var _ generator.Generator = (*Generator)(nil)

// Generator is a test double with function-field hooks. With no hooks set it
// supports every category and returns a small deterministic payload.
type Generator struct {
	calls atomic.Int32

	GenerateFn   func(ctx context.Context, category string, params map[string]any) (domain.Artifact, error)
	SupportsFn   func(category string) bool
	CategoriesFn func() []domain.CategoryInfo
}

func (m *Generator) Generate(ctx context.Context, category string, params map[string]any) (domain.Artifact, error) {
	m.calls.Add(1)
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, category, params)
	}
	return domain.Artifact("artifact:" + category), nil
}

func (m *Generator) Supports(category string) bool {
	if m.SupportsFn != nil {
		return m.SupportsFn(category)
	}
	return category != ""
}

func (m *Generator) Categories() []domain.CategoryInfo {
	if m.CategoriesFn != nil {
		return m.CategoriesFn()
	}
	return []domain.CategoryInfo{{Name: "sigil"}, {Name: "enso"}}
}

// Calls returns how many times Generate has been invoked.
func (m *Generator) Calls() int {
	return int(m.calls.Load())
}
