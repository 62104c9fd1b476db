package usage

import (
	"errors"
	"strings"
	"sync"

	"reaper-cleaner/internal/models"
)

// ErrSealed is returned when adding to a builder after Seal.
var ErrSealed = errors.New("usage index is sealed")

// Builder accumulates resolved usages from any number of goroutines. Sets
// only grow.
type Builder struct {
	mu       sync.Mutex
	specific map[string]struct{}
	fallback map[string]struct{}
	sealed   bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		specific: make(map[string]struct{}),
		fallback: make(map[string]struct{}),
	}
}

// Add unions one resolved usage into the matching set. Keys are folded to
// lower case so membership is case-insensitive regardless of the caller.
func (b *Builder) Add(u models.ResolvedUsage) error {
	key := strings.ToLower(u.Key)
	if key == "" {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed {
		return ErrSealed
	}
	switch u.Kind {
	case models.UsageSpecific:
		b.specific[key] = struct{}{}
	case models.UsageFallback:
		b.fallback[key] = struct{}{}
	}
	return nil
}

// AddAll adds every usage in us.
func (b *Builder) AddAll(us []models.ResolvedUsage) error {
	for _, u := range us {
		if err := b.Add(u); err != nil {
			return err
		}
	}
	return nil
}

// Seal freezes the builder and returns the read-only index. Classification
// only accepts a sealed Index, so it cannot start before every project has
// been folded in. Seal may be called more than once and returns equivalent
// indexes.
func (b *Builder) Seal() *Index {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sealed = true
	return &Index{specific: b.specific, fallback: b.fallback}
}

// Index is the sealed, read-only union of all references of one session.
// It is safe for concurrent reads.
type Index struct {
	specific map[string]struct{}
	fallback map[string]struct{}
}

// HasSpecific reports whether the canonical key is a confirmed reference.
func (ix *Index) HasSpecific(canonicalKey string) bool {
	_, ok := ix.specific[strings.ToLower(canonicalKey)]
	return ok
}

// HasFallback reports whether a bare filename is protected by an
// unresolved reference.
func (ix *Index) HasFallback(name string) bool {
	_, ok := ix.fallback[strings.ToLower(name)]
	return ok
}

// Classify applies the verdict order: exact path first, then bare filename,
// otherwise unused.
func (ix *Index) Classify(canonicalKey, name string) models.Classification {
	if ix.HasSpecific(canonicalKey) {
		return models.ClassUsed
	}
	if ix.HasFallback(name) {
		return models.ClassPossiblyUsed
	}
	return models.ClassUnused
}

// Counts returns the sizes of the specific and fallback sets.
func (ix *Index) Counts() (specific, fallback int) {
	return len(ix.specific), len(ix.fallback)
}
