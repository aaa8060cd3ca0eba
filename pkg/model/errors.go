package model

import "fmt"

// Sentinel errors for the mutation surface. Wrapped errors add positional
// context; match with errors.Is.
var (
	ErrEmptySectionTitle = fmt.Errorf("model: section title is required")
	ErrEmptyFieldTitle   = fmt.Errorf("model: field title is required")
	ErrUnknownFieldType  = fmt.Errorf("model: unknown field type")
	ErrNoOptions         = fmt.Errorf("model: choice group needs at least one option")
	ErrIndexOutOfRange   = fmt.Errorf("model: index out of range")
)

// OptionError reports the first invalid option item in a choice-group
// submission. Mutations fail fast on it and leave the model unchanged.
type OptionError struct {
	Index int
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("model: option %d has an empty description", e.Index)
}
