package output

import (
	"encoding/json"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct{}

// jsonOutput is the JSON structure for output.
type jsonOutput struct {
	GeneratedAt string        `json:"generated_at"`
	Project     string        `json:"project"`
	Root        string        `json:"root"`
	TotalLinks  int           `json:"total_links"`
	Links       []jsonLink    `json:"links"`
	Ignored     []jsonIgnored `json:"ignored,omitempty"`
}

type jsonLink struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
}

type jsonIgnored struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Rule   string `json:"rule"`
}

// Format implements Formatter.
func (*JSONFormatter) Format(report *Report) ([]byte, error) {
	out := jsonOutput{
		GeneratedAt: report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Project:     report.Project,
		Root:        report.Root,
		TotalLinks:  len(report.Links),
		Links:       make([]jsonLink, 0, len(report.Links)),
	}

	for _, l := range report.Links {
		out.Links = append(out.Links, jsonLink{
			Name:     l.Name,
			Path:     l.Rel,
			URL:      l.URL,
			Markdown: l.Markdown(),
		})
	}

	for _, ig := range report.Ignored {
		out.Ignored = append(out.Ignored, jsonIgnored{Path: ig.Path, Reason: ig.Type, Rule: ig.Rule})
	}

	return json.MarshalIndent(out, "", "  ")
}
