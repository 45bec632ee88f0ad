package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level Level) (*ConsoleLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := New(buf, level)
	l.now = func() time.Time { return time.Date(2024, 1, 1, 9, 5, 7, 0, time.UTC) }
	return l, buf
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelWarn, false},
		{"trace", LevelTrace, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelWarn, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsoleLogger_Format(t *testing.T) {
	t.Parallel()

	l, buf := newTestLogger(LevelTrace)
	l.Warnf("skipped %s: %s", "a/b", "cycle")

	assert.Equal(t, "[09:05:07] [WARN] skipped a/b: cycle\n", buf.String())
}

func TestConsoleLogger_Filtering(t *testing.T) {
	t.Parallel()

	l, buf := newTestLogger(LevelWarn)
	l.Tracef("t")
	l.Debugf("d")
	l.Infof("i")
	l.Warnf("w")
	l.Errorf("e")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[WARN] w")
	assert.Contains(t, lines[1], "[ERROR] e")
	assert.False(t, l.Enabled(LevelInfo))
	assert.True(t, l.Enabled(LevelError))
}

func TestConsoleLogger_NoColorForBuffers(t *testing.T) {
	t.Parallel()

	l, buf := newTestLogger(LevelInfo)
	l.Infof("plain")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestConsoleLogger_NilAndDiscard(t *testing.T) {
	t.Parallel()

	var nilLogger *ConsoleLogger
	assert.NotPanics(t, func() { nilLogger.Errorf("x") })
	assert.False(t, nilLogger.Enabled(LevelError))

	d := Discard()
	assert.False(t, d.Enabled(LevelError))
	assert.NotPanics(t, func() { d.Errorf("x") })

	nilWriter := New(nil, LevelTrace)
	assert.NotPanics(t, func() { nilWriter.Errorf("x") })
}

func TestConsoleLogger_Concurrent(t *testing.T) {
	t.Parallel()

	l, buf := newTestLogger(LevelInfo)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Infof("msg %d", i)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(buf.String(), "\n"))
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}
