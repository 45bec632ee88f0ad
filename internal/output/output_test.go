package output

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/repokit/repokit/internal/filter"
	"github.com/repokit/repokit/internal/links"
)

func newTestReport() *Report {
	return &Report{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Project:     "myproj",
		Root:        "/home/alice/myproj",
		Links: []links.Link{
			{
				Name: "book.epub",
				Path: "/home/alice/myproj/docs/book.epub",
				Rel:  "docs/book.epub",
				URL:  "https://github.com/alice/myproj/raw/master/docs/book.epub",
			},
			{
				Name: "a.pdf",
				Path: "/home/alice/myproj/a.pdf",
				Rel:  "a.pdf",
				URL:  "https://github.com/alice/myproj/raw/master/a.pdf",
			},
		},
		Ignored: []filter.Reason{
			{Type: filter.ReasonName, Rule: "draft.pdf", Path: "draft.pdf"},
		},
	}
}

func TestValidFormats(t *testing.T) {
	t.Parallel()

	for _, f := range ValidFormats() {
		assert.True(t, IsValidFormat(f), f)
		_, err := GetFormatter(Format(f))
		assert.NoError(t, err, f)
	}
	assert.True(t, IsValidFormat("JSON"))
	assert.False(t, IsValidFormat("junit"))
	assert.False(t, IsValidFormat(""))
}

func TestNewReport(t *testing.T) {
	t.Parallel()

	r := NewReport("proj", "proj/", nil, []filter.Reason{
		{Type: filter.ReasonSuffix, Path: "notes.txt"},
		{Type: filter.ReasonPattern, Rule: "old/**", Path: "old/x.pdf"},
	})
	assert.Equal(t, "proj", r.Project)
	require.Len(t, r.Ignored, 1)
	assert.Equal(t, "old/x.pdf", r.Ignored[0].Path)
}

func TestMarkdownFormatter(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t,
		"[book.epub](https://github.com/alice/myproj/raw/master/docs/book.epub)\n"+
			"[a.pdf](https://github.com/alice/myproj/raw/master/a.pdf)\n",
		string(data))
}

func TestMarkdownFormatter_Empty(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(&Report{}, FormatMarkdown)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestJSONFormatter(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatJSON)
	require.NoError(t, err)

	var out jsonOutput
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "2024-01-15T10:30:00Z", out.GeneratedAt)
	assert.Equal(t, "myproj", out.Project)
	assert.Equal(t, 2, out.TotalLinks)
	require.Len(t, out.Links, 2)
	assert.Equal(t, "docs/book.epub", out.Links[0].Path)
	assert.Equal(t, "[a.pdf](https://github.com/alice/myproj/raw/master/a.pdf)", out.Links[1].Markdown)
	require.Len(t, out.Ignored, 1)
	assert.Equal(t, "name", out.Ignored[0].Reason)
}

func TestJSONFormatter_EmptyLinksIsArray(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(&Report{}, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"links": []`)
	assert.NotContains(t, string(data), "ignored")
}

func TestYAMLFormatter(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatYAML)
	require.NoError(t, err)

	var out yamlOutput
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, 2, out.TotalLinks)
	assert.Equal(t, "book.epub", out.Links[0].Name)
	assert.Equal(t, "https://github.com/alice/myproj/raw/master/a.pdf", out.Links[1].URL)
}

func TestTOMLFormatter(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatTOML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[links]]")

	var out tomlOutput
	require.NoError(t, toml.Unmarshal(data, &out))
	assert.Equal(t, "myproj", out.Project)
	require.Len(t, out.Links, 2)
	assert.Equal(t, "a.pdf", out.Links[1].Path)
	require.Len(t, out.Ignored, 1)
	assert.Equal(t, "draft.pdf", out.Ignored[0].Rule)
}

func TestXMLFormatter(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatXML)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))

	var out xmlOutput
	require.NoError(t, xml.Unmarshal(data, &out))
	assert.Equal(t, 2, out.Total)
	require.Len(t, out.Links, 2)
	assert.Equal(t, "docs/book.epub", out.Links[0].Path)
	assert.Equal(t, "https://github.com/alice/myproj/raw/master/docs/book.epub", out.Links[0].URL)
	require.NotNil(t, out.Ignored)
	assert.Len(t, out.Ignored.Items, 1)
}

func TestHTMLFormatter(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatHTML)
	require.NoError(t, err)

	html := string(data)
	assert.Contains(t, html, "<ul>")
	assert.Contains(t, html,
		`<li><a href="https://github.com/alice/myproj/raw/master/docs/book.epub">book.epub</a></li>`)
	assert.Equal(t, 2, strings.Count(html, "<li>"))
}

func TestInferFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"links.md", FormatMarkdown, false},
		{"LINKS.MARKDOWN", FormatMarkdown, false},
		{"out.json", FormatJSON, false},
		{"out.yml", FormatYAML, false},
		{"out.yaml", FormatYAML, false},
		{"out.toml", FormatTOML, false},
		{"out.xml", FormatXML, false},
		{"index.html", FormatHTML, false},
		{"index.htm", FormatHTML, false},
		{"out.txt", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()
			got, err := InferFormat(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteToFile(t *testing.T) {
	t.Parallel()

	t.Run("InfersFromExtension", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "links.json")
		require.NoError(t, WriteToFile(newTestReport(), p))

		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, json.Valid(data))
	})

	t.Run("UnknownExtension", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "links.txt")
		assert.Error(t, WriteToFile(newTestReport(), p))
		assert.NoFileExists(t, p)
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "nope", "links.md")
		assert.ErrorContains(t, WriteToFile(newTestReport(), p), "writing file")
	})
}
