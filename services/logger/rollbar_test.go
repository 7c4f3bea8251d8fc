package logsvc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teenfin/backend/core"
)

func TestRollbarLogger_writes_std(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(NewStd(&buf, "API"), &core.Config{Env: "TEST"})
	logger.Enable(false)

	logger.Error("reorder failed", errors.New("boom"), map[string]interface{}{"course_id": "c1"}, core.Person{ID: "u1", Name: "Ada"})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "API", line["component"])
	assert.Equal(t, "reorder failed", line["message"])
	assert.Equal(t, "c1", line["course_id"])
	assert.Equal(t, "u1", line["user_id"])
	assert.Contains(t, line["error"], "boom")
}

func TestRollbarLogger_prepare_strips_person(t *testing.T) {
	logger := RollbarLogger{}
	err := errors.New("boom")

	got := logger.prepare("msg", []interface{}{err, core.Person{ID: "u1"}, core.Person{ID: "u2"}})
	assert.Equal(t, []interface{}{"msg", err}, got)
}
