package assets

import "errors"

// Resolver combines custom and embedded loaders. When a custom directory is
// configured it is tried first; the embedded set is used only when the
// custom one does not exist.
type Resolver struct {
	custom   Loader // nil if no custom path configured
	embedded Loader
}

// NewResolver creates a Resolver. An empty customBasePath uses embedded
// clause sets only; an invalid one is an error.
func NewResolver(customBasePath string) (*Resolver, error) {
	resolver := &Resolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadClauseSet loads a clause set, custom first.
func (r *Resolver) LoadClauseSet(name string) (*ClauseSet, error) {
	if r.custom == nil {
		return r.embedded.LoadClauseSet(name)
	}

	cs, err := r.custom.LoadClauseSet(name)
	if err == nil {
		return cs, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors.
	if !errors.Is(err, ErrClauseSetNotFound) {
		return nil, err
	}

	return r.embedded.LoadClauseSet(name)
}

// HasCustomLoader returns true if a custom loader is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
