package linker

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput        = errors.New("malformed input")
	ErrUndefinedSymbol       = errors.New("undefined symbol")
	ErrDuplicateSymbol       = errors.New("duplicate symbol definition")
	ErrRelocationOutOfBounds = errors.New("relocation offset out of bounds")
	ErrOutputWriteFailure    = errors.New("cannot write output")
)

func malformed(name string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedInput, name, fmt.Sprintf(format, args...))
}
