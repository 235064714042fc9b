package mdclogrus

import (
	"bytes"
	"context"
	"encoding/json"
	. "testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeplinko/mdcext/mdc"
)

func newTestLogger(buf *bytes.Buffer) *logrus.Logger {
	l := logrus.New()
	l.Out = buf
	l.Formatter = &logrus.JSONFormatter{DisableTimestamp: true}
	l.AddHook(Hook{})
	return l
}

func decodeLine(t *T, dec *json.Decoder) map[string]interface{} {
	t.Helper()
	var fields map[string]interface{}
	require.NoError(t, dec.Decode(&fields))
	return fields
}

func TestHook(t *T) {
	buf := new(bytes.Buffer)
	l := newTestLogger(buf)
	dec := json.NewDecoder(buf)

	store := mdc.NewMap()
	ctx := mdc.WithStore(context.Background(), store)

	h, err := mdc.PutPairs(store, mdc.P("userId", "12345"), mdc.P("sessionId", "abc123"))
	require.NoError(t, err)
	l.WithContext(ctx).WithField("userId", "explicit").Info("during")
	require.NoError(t, h.Close())
	l.WithContext(ctx).Info("after")

	assert.Equal(t, map[string]interface{}{
		"level":     "info",
		"msg":       "during",
		"userId":    "explicit",
		"sessionId": "abc123",
	}, decodeLine(t, dec))
	assert.Equal(t, map[string]interface{}{
		"level": "info",
		"msg":   "after",
	}, decodeLine(t, dec))

	// both lines were consumed
	assert.False(t, dec.More())
}

func TestHookDefaultStore(t *T) {
	buf := new(bytes.Buffer)
	l := newTestLogger(buf)
	dec := json.NewDecoder(buf)

	h, err := mdc.Put(mdc.Default, "jobId", "nightly")
	require.NoError(t, err)
	defer h.Close()

	// no Context at all falls back to mdc.Default
	l.Info("no context")
	assert.Equal(t, "nightly", decodeLine(t, dec)["jobId"])

	// a Store which can't be read from adds nothing
	ctx := mdc.WithStore(context.Background(), mdc.Func{})
	l.WithContext(ctx).Info("func store")
	assert.NotContains(t, decodeLine(t, dec), "jobId")
}
