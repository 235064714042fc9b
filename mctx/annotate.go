package mctx

import (
	"context"
	"sort"
)

type ctxKeyAnnotation int

// Annotator is a type which can add its annotation data to an existing set of
// Annotations. Annotate may be called any number of times, and should be
// expected to be called in a non-thread-safe manner on the given Annotations.
type Annotator interface {
	Annotate(Annotations)
}

type el struct {
	annotator Annotator
	prev      *el
}

// WithAnnotator returns a Context which will produce the Annotator's
// annotations when EvaluateAnnotations is called on it or any of its
// descendants. Annotators added later take precedence over earlier ones.
func WithAnnotator(ctx context.Context, annotator Annotator) context.Context {
	curr := &el{annotator: annotator}
	curr.prev, _ = ctx.Value(ctxKeyAnnotation(0)).(*el)
	return context.WithValue(ctx, ctxKeyAnnotation(0), curr)
}

type annotationSeq []string

func (s annotationSeq) Annotate(aa Annotations) {
	for i := 0; i < len(s); i += 2 {
		aa[s[i]] = s[i+1]
	}
}

// Annotate is a shortcut for calling WithAnnotator with the given key/value
// pairs.
//
// NOTE If the length of kvs is odd this will panic.
func Annotate(ctx context.Context, kvs ...string) context.Context {
	if len(kvs)%2 > 0 {
		panic("kvs being passed to mctx.Annotate must have an even number of elements")
	} else if len(kvs) == 0 {
		return ctx
	}
	return WithAnnotator(ctx, annotationSeq(kvs))
}

// Annotations is a set of key/value pairs. It implements the Annotator
// interface itself.
type Annotations map[string]string

// Annotate implements the method for the Annotator interface.
func (aa Annotations) Annotate(aa2 Annotations) {
	for k, v := range aa {
		aa2[k] = v
	}
}

// StringSlice returns the key/value pairs as a slice of tuples, sorted by key
// in ascending order.
func (aa Annotations) StringSlice() [][2]string {
	slice := make([][2]string, 0, len(aa))
	for k, v := range aa {
		slice = append(slice, [2]string{k, v})
	}
	sort.Slice(slice, func(i, j int) bool {
		return slice[i][0] < slice[j][0]
	})
	return slice
}

// EvaluateAnnotations collects all annotations which have been set on the
// Context and its ancestors, and sets them on the given Annotations. If a key
// was set more than once only the most recent value is used.
//
// The passed in Annotations is returned for convenience. If it is nil a new
// one is allocated.
func EvaluateAnnotations(ctx context.Context, aa Annotations) Annotations {
	if aa == nil {
		aa = Annotations{}
	}

	tmp := Annotations{}
	for el, _ := ctx.Value(ctxKeyAnnotation(0)).(*el); el != nil; el = el.prev {
		el.annotator.Annotate(tmp)
		for k, v := range tmp {
			if _, ok := aa[k]; !ok {
				aa[k] = v
			}
			delete(tmp, k)
		}
	}
	return aa
}

// MergeAnnotations evaluates the annotations of all given Contexts, with
// Contexts to the right taking precedence, and returns them as a single set.
func MergeAnnotations(ctxs ...context.Context) Annotations {
	aa := Annotations{}
	tmp := Annotations{}
	for _, ctx := range ctxs {
		EvaluateAnnotations(ctx, tmp)
		for k, v := range tmp {
			aa[k] = v
			delete(tmp, k)
		}
	}
	return aa
}
