package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrClauseSetNotFound indicates the requested clause set does not exist.
	ErrClauseSetNotFound = errors.New("clause set not found")

	// ErrIncompleteClauseSet indicates the clause set is missing a title or article.
	ErrIncompleteClauseSet = errors.New("clause set incomplete")

	// ErrInvalidClauseSet indicates the clause set file could not be decoded.
	ErrInvalidClauseSet = errors.New("invalid clause set")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error occurred while reading an asset file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
