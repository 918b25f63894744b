package adapter

import "fmt"

// InputError reports invalid tool input (empty title, malformed date,
// unparseable estimate, out-of-range priority). It is raised before
// any store interaction so a bad call never half-mutates anything.
type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string {
	return e.Msg
}

func (e *InputError) Unwrap() error { return e.Err }

func inputErrorf(format string, args ...any) *InputError {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}
