package merr

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// MaxStackSize indicates the maximum number of stack frames which will be
// stored when embedding stack traces in errors.
var MaxStackSize = 50

const attrKeyStack = "stack"

// Stack represents a stack trace at a particular point in execution.
type Stack []uintptr

// Frame returns the first frame in the stack.
func (s Stack) Frame() runtime.Frame {
	if len(s) == 0 {
		panic("cannot call Frame on empty stack")
	}
	frame, _ := runtime.CallersFrames([]uintptr(s)).Next()
	return frame
}

// Source returns the package directory, file and line of the top-most frame,
// e.g. "mdc/mdc.go:42".
func (s Stack) Source() string {
	frame := s.Frame()
	file, dir := filepath.Base(frame.File), filepath.Base(filepath.Dir(frame.File))
	return fmt.Sprintf("%s/%s:%d", dir, file, frame.Line)
}

func setStack(er *err, skip int) {
	stackSlice := make([]uintptr, MaxStackSize)
	// incr skip once for setStack, and once for runtime.Callers
	l := runtime.Callers(skip+2, stackSlice)
	er.attr[attrKeyStack] = val{val: Stack(stackSlice[:l])}
}

// GetStack returns the Stack which was embedded in the error, or nil if there
// isn't one.
func GetStack(e error) Stack {
	stack, _ := GetValue(e, attrKeyStack).(Stack)
	return stack
}
