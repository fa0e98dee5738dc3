package assets

// Loader loads clause sets by name.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type Loader interface {
	// LoadClauseSet loads a clause set by name (without .yaml extension).
	// Returns ErrClauseSetNotFound if the clause set doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadClauseSet(name string) (*ClauseSet, error)
}
