package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "users", "production")

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "users", line["app"])
	assert.Equal(t, "logger initialized", line["msg"])
}

func TestNewLogger_DevelopmentIsText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "users", "development")

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), `msg="logger initialized"`)
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "users", "production")
	buf.Reset()

	LogError(logger, "save failed", errors.New("boom"), logrus.Fields{"user_id": 3})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, float64(3), line["user_id"])
	assert.Equal(t, "error", line["level"])
}
