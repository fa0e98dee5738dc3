package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadClauseSet loads a clause set by name using the default embedded loader.
// Returns ErrClauseSetNotFound if the clause set does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadClauseSet(name string) (*ClauseSet, error) {
	return defaultLoader.LoadClauseSet(name)
}

// Names lists the embedded clause sets.
func Names() []string {
	return defaultLoader.Names()
}
