// Package merr extends the errors package with key/value attributes and
// embedded stacktraces.
//
// Errors returned from merr functions wrap the error they were given. Direct
// equality checks against the original error will fail, use Equal, Base, or
// errors.Is instead. All functions return nil when given a nil error.
package merr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type val struct {
	visible bool
	val     interface{}
}

type err struct {
	err  error
	attr map[string]val
}

// wrap returns e as an *err. If cp is true and e is already an *err a copy is
// returned, so it may be modified without affecting e. If skip is
// non-negative and no stack is embedded yet, one is embedded starting that
// many frames above wrap's caller.
func wrap(e error, cp bool, skip int) *err {
	er, ok := e.(*err)
	if !ok {
		er = &err{err: e, attr: map[string]val{}}
		if skip >= 0 {
			setStack(er, skip+1)
		}
		return er
	} else if !cp {
		return er
	}

	er2 := &err{
		err:  er.err,
		attr: make(map[string]val, len(er.attr)+1),
	}
	for k, v := range er.attr {
		er2.attr[k] = v
	}
	if _, ok := er2.attr[attrKeyStack]; !ok && skip >= 0 {
		setStack(er2, skip+1)
	}
	return er2
}

// Wrap returns an error wrapping the given one, with the stack of the caller
// embedded into it. If the error was already wrapped it is returned as-is.
func Wrap(e error) error {
	if e == nil {
		return nil
	}
	return wrap(e, false, 1)
}

// New returns a new error with the given string as its error string and the
// stack of the caller embedded into it.
func New(str string) error {
	return wrap(errors.New(str), false, 1)
}

// Errorf is like New, but allows for formatting of the string.
func Errorf(str string, args ...interface{}) error {
	return wrap(fmt.Errorf(str, args...), false, 1)
}

// WithValue returns a copy of the error with the given key set to the given
// value. visible determines whether or not the key/value is included in the
// output of Error and in Context.
func WithValue(e error, k string, v interface{}, visible bool) error {
	if e == nil {
		return nil
	}
	er := wrap(e, true, 1)
	er.attr[k] = val{val: v, visible: visible}
	return er
}

// GetValue returns the value embedded in the error for the given key, or nil
// if the error doesn't have that key embedded.
func GetValue(e error, k string) interface{} {
	er, ok := e.(*err)
	if !ok {
		return nil
	}
	return er.attr[k].val
}

func (er *err) visibleAttrs() [][2]string {
	out := make([][2]string, 0, len(er.attr))
	for k, v := range er.attr {
		if !v.visible {
			continue
		}
		out = append(out, [2]string{k, fmt.Sprint(v.val)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i][0] < out[j][0]
	})
	return out
}

func (er *err) Error() string {
	visAttrs := er.visibleAttrs()
	if len(visAttrs) == 0 {
		return er.err.Error()
	}

	sb := new(strings.Builder)
	sb.WriteString(strings.TrimSpace(er.err.Error()))
	for _, attr := range visAttrs {
		sb.WriteString("\n\t* ")
		sb.WriteString(attr[0])
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(attr[1]))
	}
	return sb.String()
}

// Unwrap returns the underlying error, so that errors.Is and errors.As see
// through merr's wrapping.
func (er *err) Unwrap() error {
	return er.err
}

// Base returns the error which was originally wrapped by merr. If the error
// isn't from merr it is returned as-is.
func Base(e error) error {
	if er, ok := e.(*err); ok {
		return er.err
	}
	return e
}

// Equal is a shortcut for Base(e1) == Base(e2).
func Equal(e1, e2 error) bool {
	return Base(e1) == Base(e2)
}
