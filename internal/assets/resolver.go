package assets

import "errors"

// TemplateResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured it is tried first; the embedded loader
// serves any template the custom location does not have.
type TemplateResolver struct {
	custom   TemplateLoader // nil if no custom path configured
	embedded *EmbeddedLoader
}

// NewTemplateResolver creates a TemplateResolver.
// If customBasePath is empty, only embedded templates are used.
// Returns an error if customBasePath is set but invalid.
func NewTemplateResolver(customBasePath string) (*TemplateResolver, error) {
	resolver := &TemplateResolver{
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

// LoadTemplate loads a template, trying the custom loader first if available.
func (r *TemplateResolver) LoadTemplate(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadTemplate(name)
	}

	content, err := r.custom.LoadTemplate(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors.
	if !errors.Is(err, ErrTemplateNotFound) {
		return "", err
	}

	return r.embedded.LoadTemplate(name)
}

// Available lists the embedded template names, for hints.
func (r *TemplateResolver) Available() []string {
	return r.embedded.Names()
}

// HasCustomLoader returns true if a custom template loader is configured.
func (r *TemplateResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ TemplateLoader = (*TemplateResolver)(nil)
