package typesystem

import "fmt"

// ArityError indicates a generic definition was given the wrong number of type arguments
type ArityError struct {
	Name     string
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s expects %d type argument(s), got %d", e.Name, e.Expected, e.Got)
}

func NewArityError(name string, expected, got int) *ArityError {
	return &ArityError{Name: name, Expected: expected, Got: got}
}
