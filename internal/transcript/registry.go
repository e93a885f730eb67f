package transcript

import "errors"

// ErrNoGenericProvider means the registry cannot serve arbitrary URLs at all.
// This is a startup configuration fault, the only error class a resolution is
// allowed to surface.
var ErrNoGenericProvider = errors.New("generic transcript provider is not registered")

// Registry holds the fixed, ordered set of provider modules. Order matters:
// specialized providers are consulted first-match-wins, the generic provider
// only ever serves as the fallback.
type Registry struct {
	providers []Provider
}

// NewRegistry builds a registry from an explicit provider list. Fails when no
// generic provider is present, since such a registry could not serve every URL.
func NewRegistry(providers ...Provider) (*Registry, error) {
	registry := &Registry{providers: providers}
	if registry.generic() == nil {
		return nil, ErrNoGenericProvider
	}
	return registry, nil
}

// DefaultRegistry wires the four built-in providers in priority order.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(
		&youtubeProvider{},
		&twitterProvider{},
		&podcastProvider{},
		&genericProvider{},
	)
	if err != nil {
		// Unreachable: the generic provider is in the list above.
		panic(err)
	}
	return registry
}

// Select picks exactly one provider for the context: the first specialized
// provider whose capability test matches, otherwise the generic fallback.
func (r *Registry) Select(pctx Context) (Provider, error) {
	for _, provider := range r.providers {
		if provider.ID() == ServiceGeneric {
			continue
		}
		if provider.CanHandle(pctx) {
			return provider, nil
		}
	}
	if generic := r.generic(); generic != nil {
		return generic, nil
	}
	return nil, ErrNoGenericProvider
}

func (r *Registry) generic() Provider {
	for _, provider := range r.providers {
		if provider.ID() == ServiceGeneric {
			return provider
		}
	}
	return nil
}
