package errors

import "fmt"

// ICE reports an internal compiler error: a broken invariant supplied by an
// earlier phase, not a problem with the user's source. These are fatal and
// intentionally distinct from ordinary diagnostics.
func ICE(format string, args ...interface{}) {
	panic(fmt.Sprintf("internal compiler error: %s", fmt.Sprintf(format, args...)))
}

// Assert panics with an internal compiler error when cond is false.
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		ICE(format, args...)
	}
}
