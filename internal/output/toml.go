package output

import (
	"github.com/pelletier/go-toml/v2"
)

// TOMLFormatter formats reports as TOML. Links become a [[links]] array
// of tables.
type TOMLFormatter struct{}

type tomlOutput struct {
	GeneratedAt string        `toml:"generated_at"`
	Project     string        `toml:"project"`
	Root        string        `toml:"root"`
	TotalLinks  int           `toml:"total_links"`
	Links       []tomlLink    `toml:"links"`
	Ignored     []tomlIgnored `toml:"ignored,omitempty"`
}

type tomlLink struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
	URL  string `toml:"url"`
}

type tomlIgnored struct {
	Path   string `toml:"path"`
	Reason string `toml:"reason"`
	Rule   string `toml:"rule"`
}

// Format implements Formatter.
func (*TOMLFormatter) Format(report *Report) ([]byte, error) {
	out := tomlOutput{
		GeneratedAt: report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Project:     report.Project,
		Root:        report.Root,
		TotalLinks:  len(report.Links),
		Links:       make([]tomlLink, 0, len(report.Links)),
	}

	for _, l := range report.Links {
		out.Links = append(out.Links, tomlLink{Name: l.Name, Path: l.Rel, URL: l.URL})
	}
	for _, ig := range report.Ignored {
		out.Ignored = append(out.Ignored, tomlIgnored{Path: ig.Path, Reason: ig.Type, Rule: ig.Rule})
	}

	return toml.Marshal(out)
}
