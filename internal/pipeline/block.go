package pipeline

// Document is the ordered block sequence every transformer reads and
// rewrites.
type Document []Block

// Block is one of the typed variants below. Transformers only rewrite the
// variants they own and pass every other block through unchanged.
type Block interface {
	block()
}

// Raw is a source line no transformer has claimed yet. After the paragraph
// pass only blank Raw lines remain, as spacing.
type Raw struct {
	Line string
}

// Heading is a leveled section heading. Depth is the target depth after
// applying the fragment's base depth.
type Heading struct {
	Depth    int
	Title    string
	Counters []CounterSet // emitted before the heading
}

// CounterSet is a \setcounter{Name}{Value} instruction.
type CounterSet struct {
	Name  string
	Value int
}

// Paragraph groups consecutive non-blank prose lines.
type Paragraph struct {
	Lines []string
}

// ListEventKind tags a list stack machine event.
type ListEventKind int

const (
	ListOpen ListEventKind = iota
	ListItem
	ListClose
)

// ListEvent is one step of the list stack machine. Sub holds bullet items
// nested inline under an ordered item.
type ListEvent struct {
	Kind    ListEventKind
	Ordered bool
	Text    string
	Sub     []string
}

// List is a balanced run of list events.
type List struct {
	Events []ListEvent
}

// Table is a parsed pipe table. Every row has len(Header) cells.
type Table struct {
	Header  []string
	Rows    [][]string
	Caption string
}

// CodeBlock is a fenced code region tagged with a listings language.
type CodeBlock struct {
	Language string
	Lines    []string
}

// Image is an image reference. Name is the materialized file name in the
// output directory, empty when the reference could not be resolved.
type Image struct {
	Alt         string
	RawPath     string
	Name        string
	Width       string
	Placeholder string // label shown in place of an unresolved image
}

func (Raw) block()       {}
func (Heading) block()   {}
func (Paragraph) block() {}
func (List) block()      {}
func (Table) block()     {}
func (CodeBlock) block() {}
func (Image) block()     {}

// Resolved reports whether the image was found and materialized.
func (img Image) Resolved() bool {
	return img.Name != ""
}

// isBlank reports whether b is a blank Raw line.
func isBlank(b Block) bool {
	r, ok := b.(Raw)
	return ok && isBlankLine(r.Line)
}
