package ops

import (
	"fmt"
	"math"

	"github.com/vecforge/wordembed/word2vec"
)

// An Array is a dense row-major array passed to and from
// operators.
//
// Data holds the elements in a slice whose type matches DT:
// []int8, []int32, []int64, []float32 or []float64, and
// []uint16 bit patterns for Float16 and BFloat16.
// A scalar has an empty Shape.
type Array struct {
	DT    DataType
	Shape []int
	Data  interface{}
}

// NewArray allocates a zeroed Array.
func NewArray(dt DataType, shape ...int) *Array {
	n := Numel(shape)
	res := &Array{DT: dt, Shape: append([]int{}, shape...)}
	switch dt {
	case Int8:
		res.Data = make([]int8, n)
	case Int32:
		res.Data = make([]int32, n)
	case Int64:
		res.Data = make([]int64, n)
	case Float16, BFloat16:
		res.Data = make([]uint16, n)
	case Float32:
		res.Data = make([]float32, n)
	case Float64:
		res.Data = make([]float64, n)
	default:
		panic("unknown data type: " + dt.String())
	}
	return res
}

// FromFloat32 wraps data in an Array without copying it.
func FromFloat32(data []float32, shape ...int) *Array {
	return &Array{DT: Float32, Shape: shape, Data: data}
}

// FromInt32 wraps data in an Array without copying it.
func FromInt32(data []int32, shape ...int) *Array {
	return &Array{DT: Int32, Shape: shape, Data: data}
}

// FromInt64 wraps data in an Array without copying it.
func FromInt64(data []int64, shape ...int) *Array {
	return &Array{DT: Int64, Shape: shape, Data: data}
}

// FromFloat64 wraps data in an Array without copying it.
func FromFloat64(data []float64, shape ...int) *Array {
	return &Array{DT: Float64, Shape: shape, Data: data}
}

// Numel returns the number of elements for a shape.
func Numel(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Len returns the number of elements in the Array.
func (a *Array) Len() int {
	return Numel(a.Shape)
}

// Validate checks that the data slice matches the type and
// shape of the Array.
func (a *Array) Validate() error {
	for _, d := range a.Shape {
		if d < 0 {
			return opError(word2vec.ShapeMismatch, "negative dimension in shape %v", a.Shape)
		}
	}
	var n int
	ok := true
	switch data := a.Data.(type) {
	case []int8:
		n, ok = len(data), a.DT == Int8
	case []int32:
		n, ok = len(data), a.DT == Int32
	case []int64:
		n, ok = len(data), a.DT == Int64
	case []uint16:
		n, ok = len(data), a.DT == Float16 || a.DT == BFloat16
	case []float32:
		n, ok = len(data), a.DT == Float32
	case []float64:
		n, ok = len(data), a.DT == Float64
	default:
		ok = false
	}
	if !ok {
		return opError(word2vec.InvalidConfiguration, "%T data for %s array", a.Data, a.DT)
	}
	if n != a.Len() {
		return opError(word2vec.ShapeMismatch, "%d elements for shape %v", n, a.Shape)
	}
	return nil
}

// At returns element i as a float64.
func (a *Array) At(i int) float64 {
	switch data := a.Data.(type) {
	case []int8:
		return float64(data[i])
	case []int32:
		return float64(data[i])
	case []int64:
		return float64(data[i])
	case []uint16:
		if a.DT == BFloat16 {
			return float64(math.Float32frombits(uint32(data[i]) << 16))
		}
		return float64(halfToFloat32(data[i]))
	case []float32:
		return float64(data[i])
	case []float64:
		return data[i]
	default:
		panic(fmt.Sprintf("unsupported data %T", a.Data))
	}
}

func halfToFloat32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h & 0x3ff)
	switch exp {
	case 0:
		f := math.Ldexp(float64(mant)/1024, -14)
		if sign != 0 {
			f = -f
		}
		return float32(f)
	case 0x1f:
		if mant == 0 {
			return math.Float32frombits(sign | 0x7f800000)
		}
		return math.Float32frombits(sign | 0x7fc00000)
	default:
		return math.Float32frombits(sign | (exp-15+127)<<23 | mant<<13)
	}
}

func opError(kind word2vec.ErrorKind, format string, args ...interface{}) error {
	return &word2vec.Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
