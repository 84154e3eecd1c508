package generator

import (
	"context"

	"github.com/glyphforge/glyphforge/internal/domain"
)

// Generator is the drawing collaborator invoked by the batch engine. It must
// be safe to call concurrently from multiple workers (pure function
// contract). The engine never interrupts an in-flight call; honoring ctx is
// a courtesy, not a requirement.
type Generator interface {
	// Generate produces one artifact for the category and parameters, or a
	// generation error on invalid parameters or internal failure.
	Generate(ctx context.Context, category string, params map[string]any) (domain.Artifact, error)

	// Supports reports whether the category is known.
	Supports(category string) bool

	// Categories lists the supported categories.
	Categories() []domain.CategoryInfo
}
