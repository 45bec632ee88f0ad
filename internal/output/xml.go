package output

import (
	"encoding/xml"
)

// XMLFormatter formats reports as generic XML.
type XMLFormatter struct{}

// xmlOutput is the XML structure for output.
type xmlOutput struct {
	XMLName     xml.Name    `xml:"links"`
	GeneratedAt string      `xml:"generated_at,attr"`
	Project     string      `xml:"project,attr"`
	Root        string      `xml:"root,attr"`
	Total       int         `xml:"total,attr"`
	Links       []xmlLink   `xml:"link"`
	Ignored     *xmlIgnored `xml:"ignored,omitempty"`
}

type xmlLink struct {
	Name string `xml:"name,attr"`
	Path string `xml:"path,attr"`
	URL  string `xml:",chardata"`
}

type xmlIgnored struct {
	Items []xmlIgnoredItem `xml:"item"`
}

type xmlIgnoredItem struct {
	Path   string `xml:"path,attr"`
	Reason string `xml:"reason,attr"`
	Rule   string `xml:"rule,attr"`
}

// Format implements Formatter.
func (*XMLFormatter) Format(report *Report) ([]byte, error) {
	out := xmlOutput{
		GeneratedAt: report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Project:     report.Project,
		Root:        report.Root,
		Total:       len(report.Links),
		Links:       make([]xmlLink, 0, len(report.Links)),
	}

	for _, l := range report.Links {
		out.Links = append(out.Links, xmlLink{Name: l.Name, Path: l.Rel, URL: l.URL})
	}

	if len(report.Ignored) > 0 {
		out.Ignored = &xmlIgnored{Items: make([]xmlIgnoredItem, 0, len(report.Ignored))}
		for _, ig := range report.Ignored {
			out.Ignored.Items = append(out.Ignored.Items, xmlIgnoredItem{Path: ig.Path, Reason: ig.Type, Rule: ig.Rule})
		}
	}

	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}
