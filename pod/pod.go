// Package pod reads flat fixed-size records out of an attached process.
//
// A type is eligible only if every possible bit pattern of its size is a
// valid value: numeric types, bools, arrays of those, and structs composed
// of them. Pointers, maps, slices, strings, channels, funcs and interfaces
// are all out, anywhere in the type. Go's type system cannot state that as
// a constraint, so eligibility is checked by reflection at the call site and
// violations are reported as ErrNotPlain before any boundary call is made.
package pod

import (
	"errors"
	"reflect"
	"unsafe"

	"github.com/P1n3appl3/livesplit-wrapper/process"
)

var (
	// ErrNotPlain is returned when T carries pointers or other non-flat
	// data and therefore cannot be safely built from raw bytes.
	ErrNotPlain = errors.New("type is not plain data")

	// ErrZeroSized is returned for zero-sized read targets.
	ErrZeroSized = errors.New("type has zero size")
)

// SizeOf reports the in-memory size of T in bytes, padding included.
func SizeOf[T any]() int {
	var t T
	return int(unsafe.Sizeof(t))
}

// Read reads one T from the attached process at addr.
//
// The raw bytes become a T only after the boundary confirms the read
// succeeded; on failure the zero T and an error are returned and no
// partially-filled value is ever observable.
func Read[T any](p *process.Process, addr process.Address) (T, error) {
	var zero T
	if hasPointers[T]() {
		return zero, ErrNotPlain
	}
	size := SizeOf[T]()
	if size == 0 {
		return zero, ErrZeroSized
	}
	buf := make([]byte, size)
	if err := p.ReadInto(addr, buf); err != nil {
		return zero, err
	}
	var v T
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), size), buf)
	return v, nil
}

// ReadSlice reads count consecutive Ts starting at addr using one bulk
// boundary read, then carves it into records.
func ReadSlice[T any](p *process.Process, addr process.Address, count int) ([]T, error) {
	if count < 0 {
		return nil, errors.New("count must not be negative")
	}
	if hasPointers[T]() {
		return nil, ErrNotPlain
	}
	size := SizeOf[T]()
	if size == 0 {
		return nil, ErrZeroSized
	}
	if count == 0 {
		return []T{}, nil
	}
	buf := make([]byte, size*count)
	if err := p.ReadInto(addr, buf); err != nil {
		return nil, err
	}
	out := make([]T, count)
	for i := range out {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[i])), size), buf[i*size:(i+1)*size])
	}
	return out, nil
}

// Bytes returns the in-memory byte image of v. Useful for building search
// patterns and test fixtures that must match the target's layout exactly.
// v must be plain data for the bytes to mean anything outside this process.
func Bytes[T any](v T) []byte {
	size := int(unsafe.Sizeof(v))
	if size == 0 {
		return []byte{}
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&v)), size))
	return out
}

// hasPointers reports whether T (recursively) contains any pointer-like
// fields.
func hasPointers[T any]() bool {
	var t T
	rt := reflect.TypeOf(t)
	if rt == nil {
		// T is an interface type; its values are never plain data.
		return true
	}
	return typeHasPointers(rt)
}

func typeHasPointers(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Func,
		reflect.Map, reflect.Slice, reflect.String, reflect.Chan:
		return true
	case reflect.Array:
		return typeHasPointers(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if typeHasPointers(rt.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// bool, ints, uints, floats, complex.
		return false
	}
}
