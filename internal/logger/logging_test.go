package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "idx", log.InfoLevel, false, false, log.TextFormatter)

	l.Debug("hidden")
	l.Info("indexed", "files", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "idx")
	assert.Contains(t, out, "files=3")
}

func TestNewFollowsGlobalLevel(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(prev) })

	log.SetLevel(log.DebugLevel)
	assert.Equal(t, log.DebugLevel, New("x").GetLevel())
}
