package sentiment

import (
	"sort"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

// Factory builds a scorer on demand so unused backends are never constructed.
type Factory func() (ports.SentimentScorer, error)

// Registry keeps a mapping from scorer names to their constructors.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds a registry with the built-in lexicon scorer.
func NewRegistry() *Registry {
	r := &Registry{factories: map[string]Factory{}}
	r.Register("lexicon", func() (ports.SentimentScorer, error) {
		return NewLexicon(), nil
	})
	return r
}

// Register adds or replaces a scorer implementation.
func (r *Registry) Register(name string, factory Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[name] = factory
}

// Resolve builds the scorer registered under name.
func (r *Registry) Resolve(name string) (ports.SentimentScorer, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, &domain.ConfigurationError{Field: "scorer.kind", Reason: "scorer " + name + " is not registered"}
	}
	return factory()
}

// Names lists registered scorers in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
