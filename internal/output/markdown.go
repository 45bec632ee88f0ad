package output

import "strings"

// MarkdownFormatter formats reports as a plain list of Markdown links,
// one per line, in traversal order.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (*MarkdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(report.Links) * 96)

	for _, l := range report.Links {
		b.WriteString(l.Markdown())
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}
