package eval

import "github.com/quill-lang/quill/value"

// Control flow (break/continue/return) is threaded as a distinguished
// error type rather than out-of-band state, so every recursive eval
// call naturally propagates it upward until a loop or function call
// catches the kind it knows how to handle, the same error-as-value
// propagation shape adapted here to a tree-walking evaluator instead
// of a parser.
type controlSignal struct {
	kind  controlKind
	value value.Value // only meaningful for kindReturn
}

type controlKind uint8

const (
	controlBreak controlKind = iota
	controlContinue
	controlReturn
)

func (c *controlSignal) Error() string {
	switch c.kind {
	case controlBreak:
		return "break outside a loop"
	case controlContinue:
		return "continue outside a loop"
	default:
		return "return outside a function"
	}
}

func isBreak(err error) bool {
	c, ok := err.(*controlSignal)
	return ok && c.kind == controlBreak
}

func isContinue(err error) bool {
	c, ok := err.(*controlSignal)
	return ok && c.kind == controlContinue
}

func asReturn(err error) (value.Value, bool) {
	c, ok := err.(*controlSignal)
	if !ok || c.kind != controlReturn {
		return nil, false
	}
	if c.value == nil {
		return value.None{}, true
	}
	return c.value, true
}
