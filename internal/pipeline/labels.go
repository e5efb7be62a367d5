package pipeline

import "golang.org/x/text/language"

// Labels are the language-dependent strings the transformers emit.
type Labels struct {
	TableCaption  string // default table caption
	ImageNotFound string // placeholder prefix for unresolved images
}

var (
	supportedLabelTags = []language.Tag{language.English, language.Spanish}
	labelMatcher       = language.NewMatcher(supportedLabelTags)

	labelSets = []Labels{
		{TableCaption: "Technical Specifications", ImageNotFound: "Image not found"},
		{TableCaption: "Especificaciones Técnicas", ImageNotFound: "Imagen no encontrada"},
	}
)

// LabelsFor returns the labels for a BCP 47 language code. Regional
// variants match their base language; anything unsupported gets English.
func LabelsFor(lang string) Labels {
	tag, err := language.Parse(lang)
	if err != nil {
		return labelSets[0]
	}
	_, idx, conf := labelMatcher.Match(tag)
	if conf == language.No {
		return labelSets[0]
	}
	return labelSets[idx]
}
