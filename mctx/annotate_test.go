package mctx

import (
	"context"
	. "testing"

	"github.com/stretchr/testify/assert"
)

type testAnnotator [2]string

func (t testAnnotator) Annotate(aa Annotations) {
	aa[t[0]] = t[1]
}

func TestAnnotate(t *T) {
	ctx := context.Background()
	ctx = Annotate(ctx, "a", "foo")
	ctx = Annotate(ctx, "b", "bar")
	ctx = WithAnnotator(ctx, testAnnotator{"b", "BAR"})

	aa := EvaluateAnnotations(ctx, nil)
	assert.Equal(t, Annotations{"a": "foo", "b": "BAR"}, aa)

	assert.Panics(t, func() { Annotate(ctx, "odd") })
	assert.Equal(t, ctx, Annotate(ctx))
}

// mutableAnnotator reports whatever its map holds at evaluation time.
type mutableAnnotator map[string]string

func (m mutableAnnotator) Annotate(aa Annotations) {
	for k, v := range m {
		aa[k] = v
	}
}

func TestAnnotateLazy(t *T) {
	m := mutableAnnotator{}
	ctx := WithAnnotator(context.Background(), m)
	assert.Empty(t, EvaluateAnnotations(ctx, nil))

	m["userId"] = "12345"
	assert.Equal(t, Annotations{"userId": "12345"}, EvaluateAnnotations(ctx, nil))

	delete(m, "userId")
	assert.Empty(t, EvaluateAnnotations(ctx, nil))
}

func TestAnnotationsStringSlice(t *T) {
	aa := Annotations{"b": "2", "a": "1", "c": "3"}
	assert.Equal(t, [][2]string{{"a", "1"}, {"b", "2"}, {"c", "3"}}, aa.StringSlice())
}

func TestMergeAnnotations(t *T) {
	ctxA := Annotate(context.Background(), "0", "zero", "1", "one")
	ctxA = Annotate(ctxA, "0", "ZERO")
	ctxB := Annotate(context.Background(), "2", "two")
	ctxB = Annotate(ctxB, "1", "ONE", "2", "TWO")

	assert.Equal(t, Annotations{
		"0": "ZERO",
		"1": "ONE",
		"2": "TWO",
	}, MergeAnnotations(ctxA, ctxB))
}
