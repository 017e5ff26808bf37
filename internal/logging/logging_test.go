package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()
	out, formatter, level := logrus.StandardLogger().Out, logrus.StandardLogger().Formatter, logrus.GetLevel()
	t.Cleanup(func() {
		logrus.SetOutput(out)
		logrus.SetFormatter(formatter)
		logrus.SetLevel(level)
	})
}

func TestSetupJSON(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "debug", "json"))

	logrus.WithField("session", "abc").Debug("Scratch file written")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["session"])
	assert.Equal(t, "debug", entry["level"])
}

func TestSetupLevelFromEnv(t *testing.T) {
	restore(t)
	t.Setenv(EnvLevel, "warn")
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "", ""))

	logrus.Info("hidden")
	assert.Empty(t, buf.String())
	logrus.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetupRejectsBadInput(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	assert.Error(t, Setup(&buf, "loud", ""))
	assert.Error(t, Setup(&buf, "info", "xml"))
}
