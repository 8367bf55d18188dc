package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrStackOverflow is returned when a call exceeds the maximum stack depth.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a return is executed with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrAddressOutOfRange is wrapped by AddressError.
	ErrAddressOutOfRange = errors.New("address out of range")
)

// AddressError describes a memory access outside of the 4KB address space.
// The access is detected before it happens.
type AddressError struct {
	Op      string // operation that attempted the access
	Address uint16 // first accessed address
	Length  int    // number of accessed bytes
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%s: %s, %d bytes at $%04X", e.Op, ErrAddressOutOfRange, e.Length, e.Address)
}

// Unwrap returns ErrAddressOutOfRange.
func (e *AddressError) Unwrap() error {
	return ErrAddressOutOfRange
}
