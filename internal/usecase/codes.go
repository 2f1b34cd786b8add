package usecase

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// CodeAlphabet leaves out characters that are easy to misread aloud or on a
// receipt (0/O, 1/I/L).
const CodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	DealCodeLength         = 10
	VerificationCodeLength = 8
)

// NewCodeGenerator returns a generator of random human-shareable codes.
func NewCodeGenerator(length int) (func() string, error) {
	generate, err := nanoid.CustomASCII(CodeAlphabet, length)
	if err != nil {
		return nil, fmt.Errorf("code generator: %w", err)
	}
	return generate, nil
}

// MustCodeGenerator is NewCodeGenerator for package-level wiring.
func MustCodeGenerator(length int) func() string {
	generate, err := NewCodeGenerator(length)
	if err != nil {
		panic(err)
	}
	return generate
}
