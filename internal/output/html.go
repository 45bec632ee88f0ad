package output

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
)

// HTMLFormatter renders the link list as an HTML fragment: a single <ul>
// with one anchor per link.
type HTMLFormatter struct{}

// Format implements Formatter.
func (*HTMLFormatter) Format(report *Report) ([]byte, error) {
	var src strings.Builder
	for _, l := range report.Links {
		src.WriteString("- ")
		src.WriteString(l.Markdown())
		src.WriteByte('\n')
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src.String()), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
