package design

import "fmt"

// StructuralError reports a violated invariant: a programmer error in the
// caller (port not found, net already driven, bel already bound at
// insufficient strength, ...). These abort the run; they are never
// raised for legality rejections, which remain plain bool returns.
type StructuralError struct {
	Op      string
	Message string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func structuralf(op, format string, args ...any) error {
	return &StructuralError{Op: op, Message: fmt.Sprintf(format, args...)}
}
