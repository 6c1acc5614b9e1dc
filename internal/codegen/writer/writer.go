package writer

import (
	"fmt"
	"strings"
)

// Writer builds PureScript source text with layout-aware indentation.
// PureScript is whitespace sensitive, so every line written between Indent
// and Dedent is prefixed with the current indentation.
type Writer struct {
	sb           strings.Builder
	indentLevel  int
	indentString string
	linePrefix   string
	needsIndent  bool
}

// NewWriter creates a writer that indents with indentString per level
func NewWriter(indentString string) *Writer {
	return &Writer{
		indentString: indentString,
		needsIndent:  true,
	}
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.updatePrefix()
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
		w.updatePrefix()
	}
}

// Write writes s without a trailing newline
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.sb.WriteString(w.linePrefix)
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

// WriteLine writes s followed by a newline
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

// WriteLinef writes a formatted line
func (w *Writer) WriteLinef(format string, args ...interface{}) {
	w.Write(fmt.Sprintf(format, args...))
	w.Newline()
}

// Newline ends the current line
func (w *Writer) Newline() {
	w.sb.WriteString("\n")
	w.needsIndent = true
}

// String returns the text written so far
func (w *Writer) String() string {
	return w.sb.String()
}

func (w *Writer) updatePrefix() {
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}

// WriteBlock writes a header line followed by an indented body.
// Example: WriteBlock("instance Eq X where", func() { w.WriteLine("eq = ...") })
func (w *Writer) WriteBlock(header string, body func()) {
	w.WriteLine(header)
	w.Indent()
	body()
	w.Dedent()
}

// WriteCases writes one "lhs -> rhs" line per pair, at the current level.
func (w *Writer) WriteCases(lhs, rhs []string) {
	for i := range lhs {
		w.WriteLinef("%s -> %s", lhs[i], rhs[i])
	}
}
