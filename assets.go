package leasepdf

import (
	"errors"

	"github.com/alnah/go-leasepdf/internal/assets"
)

// DefaultClauseSet is the name of the built-in clause set.
const DefaultClauseSet = assets.DefaultClauseSetName

// ClauseSets lists the built-in clause set names.
func ClauseSets() []string {
	return assets.Names()
}

// CheckClauseSet loads a clause set the way NewGenerator does: from
// assetPath/clauses/{name}.yaml when assetPath is set, otherwise or when that
// file does not exist, from the built-in sets. Returns nil when the set is
// complete.
func CheckClauseSet(assetPath, name string) error {
	_, err := loadClauseSet(assetPath, name)
	return err
}

func loadClauseSet(assetPath, name string) (*assets.ClauseSet, error) {
	if name == "" {
		name = DefaultClauseSet
	}
	resolver, err := assets.NewResolver(assetPath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	cs, err := resolver.LoadClauseSet(name)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return cs, nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrClauseSetNotFound):
		return wrapError(ErrClauseSetNotFound, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrClauseSetNotFound, err) // Invalid name means not found
	case errors.Is(err, assets.ErrIncompleteClauseSet), errors.Is(err, assets.ErrInvalidClauseSet):
		return wrapError(ErrIncompleteClauseSet, err)
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	default:
		return err
	}
}

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and supports
// errors.Is() matching against the public sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
// Internal errors are not exposed since they're in internal/ packages.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
