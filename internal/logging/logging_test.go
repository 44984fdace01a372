package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWritersSplitsByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log := NewWithWriters("info", &stdout, &stderr)

	log.Info("map loaded")
	log.Warn("scale refused")
	log.Error("shapefile not found")

	assert.Contains(t, stdout.String(), "map loaded")
	assert.NotContains(t, stdout.String(), "shapefile not found")
	assert.Contains(t, stderr.String(), "shapefile not found")
	assert.Contains(t, stderr.String(), "scale refused")
	assert.NotContains(t, stderr.String(), "map loaded")
}

func TestNewWithWritersHonoursLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log := NewWithWriters("error", &stdout, &stderr)

	log.Info("hidden")
	log.Warn("hidden too")

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, parseLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, parseLevel(""))
}
