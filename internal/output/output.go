// Package output provides formatting and file writing for generated link lists.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/repokit/repokit/internal/filter"
	"github.com/repokit/repokit/internal/links"
)

// Format represents an output format type.
type Format string

const (
	// FormatMarkdown outputs one "[name](url)" line per link.
	FormatMarkdown Format = "markdown"
	// FormatJSON outputs as JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML outputs as TOML.
	FormatTOML Format = "toml"
	// FormatXML outputs as generic XML.
	FormatXML Format = "xml"
	// FormatHTML outputs the Markdown list rendered to an HTML fragment.
	FormatHTML Format = "html"
)

// ValidFormats returns all valid format strings.
func ValidFormats() []string {
	return []string{
		string(FormatMarkdown),
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTOML),
		string(FormatXML),
		string(FormatHTML),
	}
}

// IsValidFormat checks if a format string is valid.
func IsValidFormat(s string) bool {
	switch Format(strings.ToLower(s)) {
	case FormatMarkdown, FormatJSON, FormatYAML, FormatTOML, FormatXML, FormatHTML:
		return true
	default:
		return false
	}
}

// Report contains all data needed for output formatting.
type Report struct {
	GeneratedAt time.Time
	Project     string // repository name without trailing slash
	Root        string // project root as given on the command line
	Links       []links.Link
	Ignored     []filter.Reason // files excluded by name or pattern rules
}

// NewReport builds a report for the given links. Only name and pattern
// rejections are kept from ignored; suffix misses are not interesting.
func NewReport(root, project string, list []links.Link, ignored []filter.Reason) *Report {
	r := &Report{
		GeneratedAt: time.Now().UTC(),
		Project:     strings.TrimSuffix(project, "/"),
		Root:        root,
		Links:       list,
	}
	for _, ig := range ignored {
		if ig.Type != filter.ReasonSuffix {
			r.Ignored = append(r.Ignored, ig)
		}
	}
	return r
}

// Formatter is the interface that output formatters implement.
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// GetFormatter returns the appropriate formatter for a format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatTOML:
		return &TOMLFormatter{}, nil
	case FormatXML:
		return &XMLFormatter{}, nil
	case FormatHTML:
		return &HTMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// FormatReport formats a report using the specified format.
func FormatReport(report *Report, format Format) ([]byte, error) {
	formatter, err := GetFormatter(format)
	if err != nil {
		return nil, err
	}
	return formatter.Format(report)
}

// InferFormat determines the output format from a filename extension.
func InferFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".xml":
		return FormatXML, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf(
			"cannot infer format from extension %q (supported: .md, .markdown, .json, .yaml, .yml, .toml, .xml, .html, .htm)",
			ext,
		)
	}
}

// WriteToFile writes a formatted report to a file, inferring the format
// from its extension.
func WriteToFile(report *Report, filename string) error {
	format, err := InferFormat(filename)
	if err != nil {
		return err
	}

	data, err := FormatReport(report, format)
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
