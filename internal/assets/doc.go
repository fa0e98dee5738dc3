// Package assets provides the static clause wording of lease documents.
//
// # Loader Architecture
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in sets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── Resolver          - combines both with custom-first fallback
//
// Resolver is the loader used by the generator. A custom directory may
// override a built-in set by name or add new ones.
//
// # Directory Structure
//
//	{basePath}/
//	└── clauses/
//	    └── {name}.yaml
//
// A clause set is decoded strictly and must define a title and all sixteen
// articles listed in ArticleOrder.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
