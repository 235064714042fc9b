// Package mdclogrus connects the MDC of the mdc package to logrus, so that
// logrus entries carry the same contextual fields as mlog messages.
package mdclogrus

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/zeplinko/mdcext/mctx"
	"github.com/zeplinko/mdcext/mdc"
)

// Hook implements logrus.Hook. On every entry it adds the current entries of
// the MDC Store bound to the entry's Context (see mdc.From) as fields. Fields
// already present on the entry are left as they are.
//
// Only Stores which implement mctx.Annotator, like mdc.Map, can be read from.
//
//	logger.AddHook(mdclogrus.Hook{})
//	logger.WithContext(ctx).Info("request handled")
type Hook struct{}

// Levels implements the logrus.Hook interface.
func (Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements the logrus.Hook interface.
func (Hook) Fire(entry *logrus.Entry) error {
	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}

	a, ok := mdc.From(ctx).(mctx.Annotator)
	if !ok {
		return nil
	}

	aa := mctx.Annotations{}
	a.Annotate(aa)
	for k, v := range aa {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}
