package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/matryer/is"
)

func TestParseLevel(t *testing.T) {
	data := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"off", LevelOff},
	}
	for _, d := range data {
		t.Run(d.in, func(t *testing.T) {
			is := is.New(t)
			got, err := ParseLevel(d.in)
			is.NoErr(err)
			is.Equal(got, d.want)
		})
	}
	t.Run("Unknown", func(t *testing.T) {
		is := is.New(t)
		_, err := ParseLevel("verbose")
		is.True(err != nil)
	})
}

func TestNew(t *testing.T) {
	t.Run("FiltersByLevel", func(t *testing.T) {
		is := is.New(t)
		var buf bytes.Buffer
		l, err := New(&buf, "warn")
		is.NoErr(err)
		l.Info("hidden")
		l.Warn("shown", "uid", "abcd-1234")
		is.True(!bytes.Contains(buf.Bytes(), []byte("hidden")))
		is.True(bytes.Contains(buf.Bytes(), []byte("uid=abcd-1234")))
	})
	t.Run("Off", func(t *testing.T) {
		is := is.New(t)
		var buf bytes.Buffer
		l, err := New(&buf, "off")
		is.NoErr(err)
		l.Error("nothing")
		is.Equal(buf.Len(), 0)
	})
	t.Run("Invalid", func(t *testing.T) {
		is := is.New(t)
		_, err := New(&bytes.Buffer{}, "loud")
		is.True(err != nil)
	})
}
