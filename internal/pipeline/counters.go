package pipeline

// sectionNames maps heading depth to the LaTeX sectioning command. Depths
// past the table render as bold run-in text.
var sectionNames = [...]string{1: "section", 2: "subsection", 3: "subsubsection"}

// maxSectionDepth is the deepest depth rendered as a numbered section.
const maxSectionDepth = len(sectionNames) - 1

// SectionCounters tracks how many headings have been emitted at each depth
// under the current parent. One instance is shared by every fragment of a
// document so embedded fragments continue the numbering. It is not safe for
// concurrent use.
type SectionCounters struct {
	counts []int
}

// NewSectionCounters returns zeroed counters.
func NewSectionCounters() *SectionCounters {
	return &SectionCounters{counts: make([]int, maxSectionDepth+1)}
}

// Emit records a heading at depth and resets every deeper counter.
func (c *SectionCounters) Emit(depth int) {
	if depth < 1 || depth > maxSectionDepth {
		return
	}
	c.counts[depth]++
	for d := depth + 1; d <= maxSectionDepth; d++ {
		c.counts[d] = 0
	}
}

// Count returns the number of headings emitted at depth under the current
// parent.
func (c *SectionCounters) Count(depth int) int {
	if depth < 1 || depth > maxSectionDepth {
		return 0
	}
	return c.counts[depth]
}

// resets returns the \setcounter instructions that make a heading at depth
// continue the surrounding numbering.
func (c *SectionCounters) resets(depth int) []CounterSet {
	if depth < 1 || depth > maxSectionDepth {
		return nil
	}
	sets := []CounterSet{{Name: sectionNames[depth], Value: c.counts[depth]}}
	for d := depth + 1; d <= maxSectionDepth; d++ {
		sets = append(sets, CounterSet{Name: sectionNames[d], Value: 0})
	}
	return sets
}
