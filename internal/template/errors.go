package template

import "fmt"

// ErrTemplateNotFound is returned when a caller names a template the Library
// does not hold, one of §7's configuration-error kinds.
type ErrTemplateNotFound struct {
	Name string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template: unknown template %q", e.Name)
}
