package output

import (
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats reports as YAML.
type YAMLFormatter struct{}

// yamlOutput is the YAML structure for output.
type yamlOutput struct {
	GeneratedAt string        `yaml:"generated_at"`
	Project     string        `yaml:"project"`
	Root        string        `yaml:"root"`
	TotalLinks  int           `yaml:"total_links"`
	Links       []yamlLink    `yaml:"links"`
	Ignored     []yamlIgnored `yaml:"ignored,omitempty"`
}

type yamlLink struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

type yamlIgnored struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
	Rule   string `yaml:"rule"`
}

// Format implements Formatter.
func (*YAMLFormatter) Format(report *Report) ([]byte, error) {
	out := yamlOutput{
		GeneratedAt: report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Project:     report.Project,
		Root:        report.Root,
		TotalLinks:  len(report.Links),
		Links:       make([]yamlLink, 0, len(report.Links)),
	}

	for _, l := range report.Links {
		out.Links = append(out.Links, yamlLink{Name: l.Name, Path: l.Rel, URL: l.URL})
	}
	for _, ig := range report.Ignored {
		out.Ignored = append(out.Ignored, yamlIgnored{Path: ig.Path, Reason: ig.Type, Rule: ig.Rule})
	}

	return yaml.Marshal(out)
}
