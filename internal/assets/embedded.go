package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed clauses/*.yaml
var clauses embed.FS

// EmbeddedLoader loads clause sets compiled into the binary.
// Implements Loader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadClauseSet loads an embedded clause set by name.
func (e *EmbeddedLoader) LoadClauseSet(name string) (*ClauseSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	content, err := clauses.ReadFile("clauses/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrClauseSetNotFound, name)
	}

	return ParseClauseSet(name, content)
}

// Names returns the embedded clause set names, sorted.
func (e *EmbeddedLoader) Names() []string {
	entries, err := fs.ReadDir(clauses, "clauses")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
