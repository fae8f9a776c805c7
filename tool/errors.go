package tool

import "fmt"

// ErrToolNotFound is returned when a tool call references an unregistered
// name. This is a caller configuration problem, not a runtime failure.
type ErrToolNotFound struct {
	Name string
}

func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: unknown tool: %s", e.Name)
}

// ErrToolAlreadyRegistered is returned when registering a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}
