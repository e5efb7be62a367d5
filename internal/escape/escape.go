// Package escape maps Unicode glyphs and LaTeX reserved characters onto
// sequences pdflatex accepts.
//
// Text converts inline prose and is used by the renderer on every text node.
// Lines is the last pass over rendered LaTeX: it leaves structural lines,
// table rows and verbatim regions alone and escapes what is still prose.
// Both are idempotent: a character already preceded by a backslash is never
// escaped again.
package escape

import (
	"strings"
)

// glyphs replaces decorative pictographs with plain words. Sequences that
// carry a variation selector are listed before their bare form so they win.
var glyphs = strings.NewReplacer(
	"\u2699\ufe0f", "Technical Specifications", // ⚙️
	"\U0001f6e0\ufe0f", "Tools", // 🛠️
	"\u26a0\ufe0f", "CAUTION", // ⚠️
	"\u2139\ufe0f", "INFO", // ℹ️
	"\U0001f321\ufe0f", "TEMPERATURE", // 🌡️
	"\U0001f39b\ufe0f", "", // 🎛️
	"🔌", "Pinout",
	"📏", "Dimensions",
	"📃", "Topology",
	"✅", "OK",
	"❌", "ERROR",
	"❗", "WARNING",
	"🚫", "NOT ALLOWED",
	"🔒", "SECURE",
	"🔓", "OPEN",
	"📡", "COMMUNICATION",
	"🔋", "POWER",
	"💾", "STORAGE",
	"🛠", "Tools",
	"⚠", "CAUTION",
	"ℹ", "INFO",
	"🌡", "TEMPERATURE",
	"⚙", "SETTINGS",
)

// symbols maps technical Unicode symbols to math-mode equivalents.
var symbols = strings.NewReplacer(
	"Ω", `$\Omega$`,
	"\u2126", `$\Omega$`, // ohm sign
	"°", `$^{\circ}$`,
	"±", `$\pm$`,
	"µ", `$\mu$`,
	"\u03bc", `$\mu$`, // greek mu
	"≤", `$\leq$`,
	"≥", `$\geq$`,
	"×", `$\times$`,
	"÷", `$\div$`,
	"√", `$\sqrt{}$`,
	"∞", `$\infty$`,
	"α", `$\alpha$`,
	"β", `$\beta$`,
	"γ", `$\gamma$`,
	"δ", `$\delta$`,
	"ε", `$\varepsilon$`,
	"θ", `$\theta$`,
	"λ", `$\lambda$`,
	"π", `$\pi$`,
	"σ", `$\sigma$`,
	"τ", `$\tau$`,
	"φ", `$\phi$`,
	"ω", `$\omega$`,
	"²", `$^2$`,
	"³", `$^3$`,
	"½", `$\frac{1}{2}$`,
	"¼", `$\frac{1}{4}$`,
	"¾", `$\frac{3}{4}$`,
)

// literal escapes every LaTeX special character. Used for code spans, where
// the source text carries no markup at all.
var literal = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`%`, `\%`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Reserved characters escaped in prose. The ampersand is dropped from the
// set on lines that look like pipe table rows.
const (
	reservedProse = "%#&"
	reservedTable = "%#"
)

// Unicode applies the glyph and symbol passes. Pictographs without a mapping
// are removed.
func Unicode(s string) string {
	if isASCII(s) {
		return s
	}
	s = glyphs.Replace(s)
	s = strings.Map(dropPictograph, s)
	return symbols.Replace(s)
}

// Text escapes inline prose: glyphs, symbols and the reserved characters.
func Text(s string) string {
	return reserved(Unicode(s), reservedProse)
}

// URL escapes the characters hyperref needs escaped inside \href.
func URL(s string) string {
	return reserved(s, reservedProse)
}

// Literal escapes every LaTeX special character in s. It is not idempotent
// and must only be applied to raw source text.
func Literal(s string) string {
	return Unicode(literal.Replace(s))
}

// Lines runs the line-oriented pass over rendered LaTeX.
//
// Lines inside lstlisting or verbatim environments are copied unchanged. A
// line is already formatted when it opens or closes an environment, starts
// with a backslash or embeds a graphic; formatted lines get only the glyph
// and symbol passes. Blank lines and lines containing '&' that directly
// follow a formatted line are treated as part of it (table rows). Every
// other line has its reserved characters escaped.
func Lines(s string) string {
	lines := strings.Split(s, "\n")
	verbatim := ""
	formatted := false

	for i, line := range lines {
		if verbatim != "" {
			if strings.Contains(line, `\end{`+verbatim+`}`) {
				verbatim = ""
				formatted = true
			}
			continue
		}
		if env := opensVerbatim(line); env != "" {
			verbatim = env
			formatted = true
			continue
		}

		line = Unicode(line)
		switch {
		case isFormatted(line):
			formatted = true
		case formatted && (strings.TrimSpace(line) == "" || strings.Contains(line, "&")):
			// table row or spacing that belongs to the structure above
		default:
			formatted = false
			set := reservedProse
			if strings.Count(line, "|") >= 2 {
				set = reservedTable
			}
			line = reserved(line, set)
		}
		lines[i] = line
	}

	return strings.Join(lines, "\n")
}

var verbatimEnvs = []string{"lstlisting", "verbatim"}

// opensVerbatim returns the environment name when line starts a verbatim
// region that does not also end on the same line.
func opensVerbatim(line string) string {
	for _, env := range verbatimEnvs {
		if strings.Contains(line, `\begin{`+env+`}`) && !strings.Contains(line, `\end{`+env+`}`) {
			return env
		}
	}
	return ""
}

func isFormatted(line string) bool {
	return strings.Contains(line, `\begin{`) ||
		strings.Contains(line, `\end{`) ||
		strings.HasPrefix(strings.TrimSpace(line), `\`) ||
		strings.Contains(line, `\includegraphics`)
}

// reserved escapes each byte of set in s unless it is already escaped, that
// is preceded by an odd number of backslashes.
func reserved(s, set string) string {
	if !strings.ContainsAny(s, set) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(set, c) >= 0 && !escapedAt(s, i) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// dropPictograph removes emoji and dingbat code points, plus the joiners and
// variation selectors that build emoji sequences.
func dropPictograph(r rune) rune {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF,
		r >= 0x2600 && r <= 0x27BF,
		r >= 0x2B50 && r <= 0x2B55,
		r >= 0x23E9 && r <= 0x23FA,
		r == 0xFE0F, r == 0x200D:
		return -1
	}
	return r
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
