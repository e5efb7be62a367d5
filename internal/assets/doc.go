// Package assets loads LaTeX templates and locates image assets.
//
// # Templates
//
//	TemplateLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in templates compiled in with go:embed
//	    ├── FilesystemLoader  - {basePath}/templates/{name}.tex on disk
//	    └── TemplateResolver  - custom first, embedded as fallback
//
// Template names are validated before any lookup, and FilesystemLoader
// resolves symlinks and verifies that every path stays within its base.
//
// # Images
//
// An image reference is resolved by querying an ordered Chain of Locator
// values; the first hit wins. DirLocator searches one directory, first by
// exact relative path, then by a case-insensitive fuzzy match on file stems
// over a lexical walk. SearchLocators builds the default chain for a project
// root and language, skipping directories that do not exist.
//
// Materialize copies a located asset into the output directory, flattened to
// its base name, so the LaTeX sources can reference it without a path.
package assets
