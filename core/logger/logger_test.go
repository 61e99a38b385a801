package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoWritesKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", "info", &buf)
	t.Cleanup(func() { InitWithWriter("production", "info", nil) })

	Info("ModerationService:SubmitClaim:Start", "moderator_id", "m-1", "count", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "ModerationService:SubmitClaim:Start", line["message"])
	assert.Equal(t, "m-1", line["moderator_id"])
	assert.EqualValues(t, 3, line["count"])
}

func TestErrorAcceptsBareError(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", "info", &buf)
	t.Cleanup(func() { InitWithWriter("production", "info", nil) })

	Error("EventRepository:Create", errors.New("boom"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line["error"])
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", "info", &buf)
	t.Cleanup(func() { InitWithWriter("production", "info", nil) })

	Debug("hidden")
	assert.Empty(t, buf.String())
}
