package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

func TestZapLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := NewZap(zap.New(core))

	n.Notify(types.NotifySuccess, "Changes saved", "Stop-list updated")
	n.Notify(types.NotifyError, "Save failed", "disk full")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "Changes saved", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "disk full", entries[1].ContextMap()["description"])
	assert.Equal(t, "error", entries[1].ContextMap()["kind"])
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriter(&buf)

	n.Notify(types.NotifySuccess, "Item stopped", `"Borscht" added to the stop-list`)
	n.Notify(types.NotifyError, "Category not created", "Enter a category name")

	assert.Equal(t,
		"[ok] Item stopped: \"Borscht\" added to the stop-list\n[error] Category not created: Enter a category name\n",
		buf.String())
}

func TestMultiSkipsNil(t *testing.T) {
	var a, b Recorder
	n := Multi(&a, nil, &b)

	n.Notify(types.NotifySuccess, "t", "d")

	want := []Event{{Kind: types.NotifySuccess, Title: "t", Description: "d"}}
	assert.Equal(t, want, a.Events())
	assert.Equal(t, want, b.Events())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(types.NotifySuccess, "first", "")
	r.Notify(types.NotifyError, "second", "why")

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, Event{Kind: types.NotifyError, Title: "second", Description: "why"}, last)
	assert.Len(t, r.Events(), 2)

	r.Reset()
	assert.Empty(t, r.Events())
}
