package pipeline

import "regexp"

// indentStep is the number of columns per nesting level.
const indentStep = 4

var (
	bulletPattern  = regexp.MustCompile(`^[ \t]*[-*][ \t]+(.*)$`)
	orderedPattern = regexp.MustCompile(`^[ \t]*\d+\.[ \t]+(.*)$`)
)

type listItem struct {
	ordered bool
	indent  int
	text    string
}

func parseListItem(line string) (listItem, bool) {
	indent := indentWidth(line) / indentStep
	if m := bulletPattern.FindStringSubmatch(line); m != nil {
		return listItem{indent: indent, text: m[1]}, true
	}
	if m := orderedPattern.FindStringSubmatch(line); m != nil {
		return listItem{ordered: true, indent: indent, text: m[1]}, true
	}
	return listItem{}, false
}

func isListBlock(b Block) bool {
	raw, ok := b.(Raw)
	if !ok {
		return false
	}
	_, ok = parseListItem(raw.Line)
	return ok
}

// listTransformer turns runs of list lines into balanced List blocks.
type listTransformer struct{}

func (listTransformer) Name() string { return "lists" }

func (listTransformer) Transform(doc Document, _ *Run) Document {
	out := make(Document, 0, len(doc))

	for i := 0; i < len(doc); {
		if !isListBlock(doc[i]) {
			out = append(out, doc[i])
			i++
			continue
		}
		list, next := buildList(doc, i)
		out = append(out, list)
		i = next
	}

	return out
}

// buildList consumes list lines from doc[start:] and returns the list and
// the index of the first block it did not consume. Blank lines are absorbed
// only when another list line follows them.
func buildList(doc Document, start int) (List, int) {
	var m listMachine
	i := start

	for i < len(doc) {
		raw, ok := doc[i].(Raw)
		if !ok {
			break
		}
		if isBlankLine(raw.Line) {
			j := i
			for j < len(doc) && isBlank(doc[j]) {
				j++
			}
			if j < len(doc) && isListBlock(doc[j]) {
				i = j
				continue
			}
			break
		}

		item, ok := parseListItem(raw.Line)
		if !ok {
			break
		}
		m.item(item)
		i++

		if item.ordered {
			if sub, next := collectSubBullets(doc, i, item.indent); len(sub) > 0 {
				m.events[len(m.events)-1].Sub = sub
				i = next
			}
		}
	}

	m.closeAll()
	return List{Events: m.events}, i
}

// collectSubBullets gathers the bullet lines nested deeper than indent that
// directly follow an ordered item, skipping blank lines between them. It
// returns the bullets and the index just past the last one.
func collectSubBullets(doc Document, start, indent int) ([]string, int) {
	var sub []string
	end := start

	for j := start; j < len(doc); j++ {
		raw, ok := doc[j].(Raw)
		if !ok {
			break
		}
		if isBlankLine(raw.Line) {
			continue
		}
		item, ok := parseListItem(raw.Line)
		if !ok || item.ordered || item.indent <= indent {
			break
		}
		sub = append(sub, item.text)
		end = j + 1
	}

	return sub, end
}

type frame struct {
	ordered bool
	indent  int
}

// listMachine is the explicit frame stack. Every push emits ListOpen and
// every pop emits ListClose, so the events are balanced once closeAll runs.
type listMachine struct {
	stack  []frame
	events []ListEvent
}

func (m *listMachine) item(it listItem) {
	for len(m.stack) > 0 && m.top().indent > it.indent {
		m.pop()
	}
	if len(m.stack) == 0 || m.top() != (frame{it.ordered, it.indent}) {
		for len(m.stack) > 0 && m.top().indent >= it.indent {
			m.pop()
		}
		m.push(frame{ordered: it.ordered, indent: it.indent})
	}
	m.events = append(m.events, ListEvent{Kind: ListItem, Ordered: it.ordered, Text: it.text})
}

func (m *listMachine) top() frame {
	return m.stack[len(m.stack)-1]
}

func (m *listMachine) push(f frame) {
	m.stack = append(m.stack, f)
	m.events = append(m.events, ListEvent{Kind: ListOpen, Ordered: f.ordered})
}

func (m *listMachine) pop() {
	f := m.top()
	m.stack = m.stack[:len(m.stack)-1]
	m.events = append(m.events, ListEvent{Kind: ListClose, Ordered: f.ordered})
}

func (m *listMachine) closeAll() {
	for len(m.stack) > 0 {
		m.pop()
	}
}
