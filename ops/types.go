package ops

import "strings"

// DataType is the element type of an Array.
type DataType int

const (
	Int8 DataType = iota
	Int32
	Int64
	Float16
	BFloat16
	Float32
	Float64

	numDataTypes
)

func (d DataType) String() string {
	switch d {
	case Int8:
		return "int8"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float16:
		return "float16"
	case BFloat16:
		return "bfloat16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// IsFloat reports whether d is a floating-point type.
func (d DataType) IsFloat() bool {
	switch d {
	case Float16, BFloat16, Float32, Float64:
		return true
	default:
		return false
	}
}

// IsInteger reports whether d is an integer type.
func (d DataType) IsInteger() bool {
	switch d {
	case Int8, Int32, Int64:
		return true
	default:
		return false
	}
}

// A TypeSet is a set of DataTypes allowed for the inputs or
// outputs of an operator.
type TypeSet uint32

const (
	// AnyType allows every DataType.
	AnyType TypeSet = 1<<numDataTypes - 1

	// FloatTypes allows the floating-point types.
	FloatTypes TypeSet = 1<<Float16 | 1<<BFloat16 | 1<<Float32 | 1<<Float64
)

// TypesOf creates a TypeSet from a list of types.
func TypesOf(types ...DataType) TypeSet {
	var res TypeSet
	for _, t := range types {
		res |= 1 << t
	}
	return res
}

// Contains checks if d is in the set.
func (t TypeSet) Contains(d DataType) bool {
	return d >= 0 && d < numDataTypes && t&(1<<d) != 0
}

func (t TypeSet) String() string {
	if t == AnyType {
		return "any"
	}
	var names []string
	for d := DataType(0); d < numDataTypes; d++ {
		if t.Contains(d) {
			names = append(names, d.String())
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}
