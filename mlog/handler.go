package mlog

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/zeplinko/mdcext/mctx"
	"github.com/zeplinko/mdcext/mdc"
)

// MaxValueLen is the length past which annotation values are truncated (see
// Truncate) by the Handler returned from NewHandler.
var MaxValueLen = 512

// annotations evaluates the annotations of the Message's Contexts. If none of
// them has an MDC Store bound then the entries of mdc.Default are included
// too, underneath the Contexts' own annotations.
func annotations(msg Message) mctx.Annotations {
	aa := mctx.MergeAnnotations(msg.Contexts...)
	for _, ctx := range msg.Contexts {
		if _, ok := mdc.Bound(ctx); ok {
			return aa
		}
	}
	dflt := mctx.Annotations{}
	mdc.Default.Annotate(dflt)
	for k, v := range dflt {
		if _, ok := aa[k]; !ok {
			aa[k] = v
		}
	}
	return aa
}

// NewHandler returns a Handler which writes every Message to the io.Writer as
// a single human-readable line, with the Message's annotations sorted by key
// and their values truncated to MaxValueLen:
//
//	~ INFO -- request handled -- requestID="..." userId="12345"
//
// The returned Handler is thread-safe.
func NewHandler(out io.Writer) Handler {
	l := new(sync.Mutex)
	return func(msg Message) error {
		aa := annotations(msg)

		l.Lock()
		defer l.Unlock()

		var err error
		write := func(s string, args ...interface{}) {
			if err == nil {
				_, err = fmt.Fprintf(out, s, args...)
			}
		}
		write("~ %s -- %s", msg.Level.String(), msg.Description)
		if len(aa) > 0 {
			write(" --")
			for _, kv := range aa.StringSlice() {
				write(" %s=%s", kv[0], strconv.QuoteToGraphic(Truncate(kv[1], MaxValueLen)))
			}
		}
		write("\n")
		return err
	}
}

// MessageJSON is the type used to encode Messages to JSON in the Handler
// returned by NewJSONHandler.
type MessageJSON struct {
	TimeDate    string `json:"td"`
	Timestamp   int64  `json:"ts"`
	Level       string `json:"level"`
	Description string `json:"descr"`

	// key -> value
	Annotations map[string]string `json:"annotations,omitempty"`
}

const msgTimeFormat = "06/01/02 15:04:05.000000"

// NewJSONHandler returns a Handler which writes every Message to the
// io.Writer as a JSON object (see MessageJSON) followed by a newline.
//
// The returned Handler is thread-safe.
func NewJSONHandler(out io.Writer) Handler {
	l := new(sync.Mutex)
	enc := json.NewEncoder(out)
	return func(msg Message) error {
		msgJSON := MessageJSON{
			TimeDate:    msg.Time.UTC().Format(msgTimeFormat),
			Timestamp:   msg.Time.UnixNano(),
			Level:       msg.Level.String(),
			Description: msg.Description,
		}
		if aa := annotations(msg); len(aa) > 0 {
			msgJSON.Annotations = aa
		}

		l.Lock()
		defer l.Unlock()
		return enc.Encode(msgJSON)
	}
}
