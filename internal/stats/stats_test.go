package stats

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock returns times advancing by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func newFake() *Stats {
	s := New()
	s.now = fakeClock(time.Millisecond)
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	s := New()
	require.NotNil(t, s)
	assert.Empty(t, s.Phases())
	assert.Equal(t, time.Duration(0), s.TotalDuration())
}

func TestPhases(t *testing.T) {
	t.Parallel()

	t.Run("StartEnd", func(t *testing.T) {
		t.Parallel()
		s := newFake()
		s.Start("copy")
		s.End("copy")

		p, ok := s.Phase("copy")
		require.True(t, ok)
		assert.Equal(t, time.Millisecond, p.Duration())
	})

	t.Run("OpenPhaseHasNoDuration", func(t *testing.T) {
		t.Parallel()
		s := newFake()
		s.Start("scan")

		p, _ := s.Phase("scan")
		assert.Equal(t, time.Duration(0), p.Duration())
		assert.Equal(t, time.Duration(0), s.TotalDuration())
	})

	t.Run("OrderIsStartOrder", func(t *testing.T) {
		t.Parallel()
		s := newFake()
		s.Start("prepare")
		s.End("prepare")
		s.Start("copy")
		s.End("copy")
		s.Start("archive")
		s.End("archive")

		var names []string
		for _, p := range s.Phases() {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"prepare", "copy", "archive"}, names)
		assert.Equal(t, 5*time.Millisecond, s.TotalDuration())
	})

	t.Run("RestartReplaces", func(t *testing.T) {
		t.Parallel()
		s := newFake()
		s.Start("copy")
		s.End("copy")
		s.Start("copy")

		assert.Len(t, s.Phases(), 1)
		p, _ := s.Phase("copy")
		assert.True(t, p.End.IsZero())
	})

	t.Run("EndUnknown", func(t *testing.T) {
		t.Parallel()
		s := newFake()
		s.End("nope")
		_, ok := s.Phase("nope")
		assert.False(t, ok)
	})
}

func TestTrack(t *testing.T) {
	t.Parallel()

	s := newFake()
	boom := errors.New("boom")

	err := s.Track("copy", func() error { return boom })
	assert.ErrorIs(t, err, boom)

	p, ok := s.Phase("copy")
	require.True(t, ok)
	assert.False(t, p.End.IsZero())
}

func TestString(t *testing.T) {
	t.Parallel()

	s := newFake()
	s.Start("copy")
	s.End("copy")
	s.FilesCopied = 3
	s.BytesCopied = 2048

	out := s.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "[copy] cost 0.001000s", lines[0])
	assert.Equal(t, "[total] cost 0.001000s", lines[1])
	assert.Contains(t, out, "files copied:  3 (2.0 KB)")
	assert.NotContains(t, out, "links found")
}

func TestFinish(t *testing.T) {
	t.Parallel()

	s := New()
	s.Finish()
	assert.Positive(t, s.HeapAlloc)
	assert.Positive(t, s.NumGoroutine)
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{150 * time.Millisecond, "150ms"},
		{2500 * time.Millisecond, "2.5s"},
		{90 * time.Second, "1m30.0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2.0 MB", FormatBytes(2*1024*1024))
	assert.Equal(t, "1.0 GB", FormatBytes(1024*1024*1024))
}
