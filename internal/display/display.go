// Package display prints user-facing progress and status lines to stdout.
package display

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes status lines. Highlighting is applied only on terminals.
type Printer struct {
	writer      io.Writer
	colorOutput bool
	mu          sync.Mutex
}

// New creates a Printer on w. Colors are enabled when w is a terminal and
// NO_COLOR is unset.
func New(w io.Writer) *Printer {
	p := &Printer{writer: w}
	if f, ok := w.(*os.File); ok && os.Getenv("NO_COLOR") == "" {
		p.colorOutput = isatty.IsTerminal(f.Fd())
	}
	return p
}

func (p *Printer) println(c *color.Color, format string, args ...any) {
	if p == nil || p.writer == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	if p.colorOutput && c != nil {
		c.EnableColor()
		line = c.Sprint(line)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.writer, line)
}

// Copied prints "N files copied".
func (p *Printer) Copied(n int) {
	p.println(color.New(color.FgGreen), "%d files copied", n)
}

// CompressStart prints "start compressing...".
func (p *Printer) CompressStart() {
	p.println(nil, "start compressing...")
}

// CompressDone prints "compress done".
func (p *Printer) CompressDone() {
	p.println(color.New(color.FgGreen), "compress done")
}

// Removed prints "remove <path>".
func (p *Printer) Removed(path string) {
	p.println(color.New(color.FgYellow), "remove %s", path)
}

// Progress counts through a fixed number of items, printing
// "(i/total) => basename" for each.
type Progress struct {
	printer *Printer
	total   int
	current int
}

// NewProgress creates a progress counter over total items.
func (p *Printer) NewProgress(total int) *Progress {
	return &Progress{printer: p, total: total}
}

// Step advances the counter and prints the line for path.
func (pr *Progress) Step(path string) {
	pr.current++
	pr.printer.println(color.New(color.FgCyan), "(%d/%d) => %s", pr.current, pr.total, filepath.Base(path))
}
