package filter

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("EmptyConfig", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{})
		require.NoError(t, err)
		assert.NotNil(t, f)
		assert.False(t, f.HasRules())
	})

	t.Run("DuplicateSuffixesCollapsed", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{Suffixes: []string{".pdf", ".epub", ".pdf"}})
		require.NoError(t, err)
		assert.Equal(t, []string{".pdf", ".epub"}, f.Suffixes())

		suffixes, names, patterns := f.Stats()
		assert.Equal(t, 2, suffixes)
		assert.Equal(t, 0, names)
		assert.Equal(t, 0, patterns)
	})

	t.Run("EmptySuffix", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{Suffixes: []string{".pdf", ""}})
		assert.Error(t, err)
		assert.Nil(t, f)
	})

	t.Run("ValidGlobs", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{IgnorePatterns: []string{"drafts/**", "*.tmp.pdf", "  "}})
		require.NoError(t, err)

		_, _, patterns := f.Stats()
		assert.Equal(t, 2, patterns)
		assert.True(t, f.HasRules())
	})

	t.Run("InvalidGlob", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{IgnorePatterns: []string{"[invalid"}})
		assert.Error(t, err)
		assert.Nil(t, f)
	})
}

func TestMatch(t *testing.T) {
	t.Parallel()

	f, err := New(Config{
		Suffixes:       []string{".pdf", ".epub"},
		IgnoreNames:    []string{"secret.pdf"},
		IgnorePatterns: []string{"drafts/**", "*.tmp.pdf"},
	})
	require.NoError(t, err)

	tests := []struct {
		rel  string
		want bool
	}{
		{"book.pdf", true},
		{"docs/book.epub", true},
		{"notes.txt", false},
		{"book.PDF", false}, // no case folding
		{"a/secret.pdf", false},
		{"drafts/x/book.pdf", false},
		{"old/book.tmp.pdf", false},
		{"draftsx/book.pdf", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Match(tt.rel, path.Base(tt.rel)), tt.rel)
	}
}

func TestMatch_NoSuffixesMatchesEverything(t *testing.T) {
	t.Parallel()

	f, err := New(Config{IgnoreNames: []string{"Thumbs.db"}})
	require.NoError(t, err)

	assert.True(t, f.Match("a.bin", "a.bin"))
	assert.True(t, f.Match("x/README", "README"))
	assert.False(t, f.Match("x/Thumbs.db", "Thumbs.db"))
}

func TestMatch_NilFilter(t *testing.T) {
	t.Parallel()

	var f *Filter
	assert.True(t, f.Match("anything", "anything"))
	assert.Equal(t, 0, f.IgnoredCount())
	assert.Nil(t, f.Ignored())
	assert.False(t, f.HasRules())
}

func TestIgnoredReasons(t *testing.T) {
	t.Parallel()

	f, err := New(Config{
		Suffixes:       []string{".data"},
		IgnoreNames:    []string{"skip.data"},
		IgnorePatterns: []string{"tmp/**"},
	})
	require.NoError(t, err)

	f.Match("a.txt", "a.txt")
	f.Match("skip.data", "skip.data")
	f.Match("tmp/x.data", "x.data")
	f.Match("keep.data", "keep.data")

	require.Equal(t, 3, f.IgnoredCount())
	reasons := f.Ignored()
	assert.Equal(t, Reason{Type: ReasonSuffix, Path: "a.txt"}, reasons[0])
	assert.Equal(t, Reason{Type: ReasonName, Rule: "skip.data", Path: "skip.data"}, reasons[1])
	assert.Equal(t, Reason{Type: ReasonPattern, Rule: "tmp/**", Path: "tmp/x.data"}, reasons[2])
}

func TestIsHidden(t *testing.T) {
	t.Parallel()

	assert.True(t, IsHidden(".git"))
	assert.True(t, IsHidden(".DS_Store"))
	assert.False(t, IsHidden("visible.md"))
	assert.False(t, IsHidden("a.b"))
}
