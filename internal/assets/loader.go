package assets

// TemplateLoader defines the contract for loading LaTeX templates.
type TemplateLoader interface {
	// LoadTemplate loads a template by name (without the .tex extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

// DefaultTemplateName is the name of the built-in datasheet template.
const DefaultTemplateName = "datasheet"

// templateExt is the file extension of template files.
const templateExt = ".tex"
