package merr

import (
	"errors"
	"strings"
	. "testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeplinko/mdcext/mctx"
)

func TestError(t *T) {
	er := &err{
		err: errors.New("foo"),
		attr: map[string]val{
			"a": {val: "aaa aaa\n", visible: true},
			"b": {val: "invisible"},
			"c": {val: 3, visible: true},
		},
	}
	assert.Equal(t, "foo\n\t* a: aaa aaa\n\t* c: 3", er.Error())
}

func TestNil(t *T) {
	assert.Nil(t, Wrap(nil))
	assert.Nil(t, WithValue(nil, "foo", "bar", true))
	assert.Nil(t, GetValue(nil, "foo"))
	assert.Nil(t, GetStack(nil))
}

func TestBase(t *T) {
	errFoo, errBar := errors.New("foo"), errors.New("bar")
	erFoo := Wrap(errFoo)
	assert.Equal(t, errFoo, Base(erFoo))
	assert.Equal(t, errBar, Base(errBar))
	assert.NotEqual(t, errFoo, erFoo)
	assert.True(t, Equal(errFoo, erFoo))
	assert.False(t, Equal(errBar, erFoo))
	assert.True(t, errors.Is(WithValue(errFoo, "k", "v", true), errFoo))
}

func TestWithValue(t *T) {
	base := New("foo")
	er := WithValue(base, "key", "userId", true)
	er2 := WithValue(er, "hidden", 1, false)

	assert.Nil(t, GetValue(base, "key"))
	assert.Equal(t, "userId", GetValue(er, "key"))
	assert.Nil(t, GetValue(er, "hidden"))
	assert.Equal(t, 1, GetValue(er2, "hidden"))
	assert.Equal(t, "foo\n\t* key: userId", er2.Error())
	assert.True(t, Equal(base, er2))
}

func TestStack(t *T) {
	foo := New("foo")
	stack := GetStack(foo)
	require.NotEmpty(t, stack)

	frame := stack.Frame()
	assert.Contains(t, frame.File, "merr_test.go")
	assert.Contains(t, frame.Function, "TestStack")
	assert.True(t, strings.HasPrefix(stack.Source(), "merr/merr_test.go:"))

	assert.Nil(t, GetStack(errors.New("plain")))
	assert.Panics(t, func() { Stack(nil).Frame() })
}

func TestWrap(t *T) {
	base := errors.New("foo")
	er := Wrap(base)
	assert.Equal(t, "foo", er.Error())
	assert.True(t, Equal(base, er))
	assert.Contains(t, GetStack(er).Frame().Function, "TestWrap")

	// wrapping an already wrapped error keeps it as-is
	assert.True(t, er == Wrap(er))
}

func TestErrorf(t *T) {
	er := Errorf("unknown log level %q", "loud")
	assert.Equal(t, `unknown log level "loud"`, er.Error())
	assert.Contains(t, GetStack(er).Frame().Function, "TestErrorf")
}

func TestContext(t *T) {
	er := WithValue(New("foo"), "key", "userId", true)
	er = WithValue(er, "hidden", "x", false)
	aa := mctx.EvaluateAnnotations(Context(er), nil)

	assert.Equal(t, "foo", aa["err"])
	assert.Equal(t, "userId", aa["key"])
	assert.True(t, strings.HasPrefix(aa["errSrc"], "merr/merr_test.go:"), aa["errSrc"])
	assert.NotContains(t, aa, "hidden")
	assert.Len(t, aa, 3)

	assert.Empty(t, mctx.EvaluateAnnotations(Context(nil), nil))
}
