package generator

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"

	"github.com/glyphforge/glyphforge/internal/domain"
)

// drawFunc renders one artifact from a seeded source. Implementations are
// deterministic for a given seed and size.
type drawFunc func(rng *rand.Rand, size int) domain.Artifact

// Ensure Procedural implements Generator.
var _ Generator = (*Procedural)(nil)

// Procedural is the reference generator: a registry of per-category drawing
// routines producing deterministic opaque payloads. Identical parameters
// yield identical artifacts, which is what makes memoization worthwhile.
type Procedural struct {
	categories map[string]categoryEntry
}

type categoryEntry struct {
	info domain.CategoryInfo
	draw drawFunc
}

// NewProcedural creates a generator with the built-in category set.
func NewProcedural() *Procedural {
	p := &Procedural{categories: make(map[string]categoryEntry)}
	p.register("sigil", "angular seal built from mirrored strokes", drawDense)
	p.register("enso", "single imperfect brush circle", drawSparse)
	p.register("lattice", "repeating interference grid", drawDense)
	p.register("mosaic", "tiled color field", drawSparse)
	return p
}

func (p *Procedural) register(name, description string, draw drawFunc) {
	p.categories[name] = categoryEntry{
		info: domain.CategoryInfo{Name: name, Description: description},
		draw: draw,
	}
}

func (p *Procedural) Supports(category string) bool {
	_, ok := p.categories[category]
	return ok
}

func (p *Procedural) Categories() []domain.CategoryInfo {
	out := make([]domain.CategoryInfo, 0, len(p.categories))
	for _, e := range p.categories {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (p *Procedural) Generate(_ context.Context, category string, params map[string]any) (domain.Artifact, error) {
	e, ok := p.categories[category]
	if !ok {
		return nil, fmt.Errorf("generate %q: %w", category, domain.ErrUnknownCategory)
	}

	size := 256
	if v, ok := params["size"]; ok {
		switch n := v.(type) {
		case float64: // JSON numbers decode as float64
			size = int(n)
		case int:
			size = n
		default:
			return nil, fmt.Errorf("generate %q: size must be a number", category)
		}
		if size < 16 || size > 4096 {
			return nil, fmt.Errorf("generate %q: size %d out of range [16, 4096]", category, size)
		}
	}

	rng := rand.New(rand.NewSource(seed(category, params)))
	return e.draw(rng, size), nil
}

// seed derives a stable 64-bit seed from the category and parameters so the
// same request always draws the same artifact.
func seed(category string, params map[string]any) int64 {
	h := fnv.New64a()
	h.Write([]byte(category))
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		fmt.Fprintf(h, "%v", params[k])
	}
	return int64(h.Sum64())
}

func drawDense(rng *rand.Rand, size int) domain.Artifact {
	buf := make([]byte, size)
	rng.Read(buf)
	return buf
}

func drawSparse(rng *rand.Rand, size int) domain.Artifact {
	buf := make([]byte, size)
	for i := range buf {
		if i%3 == 0 {
			buf[i] = byte(rng.Intn(16))
		}
	}
	return buf
}
