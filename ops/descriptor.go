// Package ops exposes training kernels as operators with
// static descriptors that a host tensor framework can
// register and invoke.
package ops

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vecforge/wordembed/word2vec"
)

// A ShapeFunc computes the output shapes of an operator
// from its inputs.
type ShapeFunc func(inputs []*Array) ([][]int, error)

// An ExecFunc runs an operator.
//
// It is only called after the inputs have been checked
// against the Descriptor.
type ExecFunc func(inputs []*Array) ([]*Array, error)

// A Descriptor is the static registration record of an
// operator.
type Descriptor struct {
	Name       string
	NumInputs  int
	NumOutputs int

	// InPlace is set for operators that mutate their
	// inputs rather than producing fresh results.
	InPlace bool

	// Inputs and Outputs are the allowed element types.
	Inputs  TypeSet
	Outputs TypeSet

	Shape ShapeFunc
	Exec  ExecFunc
}

func (d *Descriptor) validate() error {
	if d.Name == "" {
		return opError(word2vec.InvalidConfiguration, "operator has no name")
	}
	if d.NumInputs < 0 || d.NumOutputs < 0 {
		return opError(word2vec.InvalidConfiguration, "operator %s: negative arity", d.Name)
	}
	if d.Shape == nil || d.Exec == nil {
		return opError(word2vec.InvalidConfiguration, "operator %s: missing functions", d.Name)
	}
	return nil
}

func (d *Descriptor) checkInputs(inputs []*Array) error {
	if len(inputs) != d.NumInputs {
		return opError(word2vec.ShapeMismatch, "operator %s takes %d inputs, got %d",
			d.Name, d.NumInputs, len(inputs))
	}
	for i, in := range inputs {
		if in == nil {
			return opError(word2vec.ShapeMismatch, "operator %s: input %d is missing",
				d.Name, i)
		}
		if !d.Inputs.Contains(in.DT) {
			return opError(word2vec.InvalidConfiguration, "operator %s: input %d has type %s, allowed %s",
				d.Name, i, in.DT, d.Inputs)
		}
		if err := in.Validate(); err != nil {
			return fmt.Errorf("operator %s: input %d: %w", d.Name, i, err)
		}
	}
	return nil
}

func (d *Descriptor) checkOutputs(outputs []*Array, shapes [][]int) error {
	if len(outputs) != d.NumOutputs {
		return opError(word2vec.ShapeMismatch, "operator %s produced %d outputs, expected %d",
			d.Name, len(outputs), d.NumOutputs)
	}
	for i, out := range outputs {
		if !d.Outputs.Contains(out.DT) {
			return opError(word2vec.InvalidConfiguration, "operator %s: output %d has type %s, allowed %s",
				d.Name, i, out.DT, d.Outputs)
		}
		if !sameShape(out.Shape, shapes[i]) {
			return opError(word2vec.ShapeMismatch, "operator %s: output %d has shape %v, expected %v",
				d.Name, i, out.Shape, shapes[i])
		}
	}
	return nil
}

// A Registry is a thread-safe table of operators.
type Registry struct {
	lock sync.RWMutex
	ops  map[string]*Descriptor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ops: map[string]*Descriptor{}}
}

// Register adds an operator to the registry.
// It fails if the name is already taken.
func (r *Registry) Register(d *Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.ops[d.Name]; ok {
		return opError(word2vec.InvalidConfiguration, "operator %s already registered", d.Name)
	}
	r.ops[d.Name] = d
	return nil
}

// Lookup finds an operator by name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	d, ok := r.ops[name]
	return d, ok
}

// Names returns the sorted names of all operators.
func (r *Registry) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	var res []string
	for name := range r.ops {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Invoke runs an operator.
//
// The arity and element types of the inputs are checked
// before the operator runs, and the outputs are checked
// against the descriptor and its shape function afterwards.
func (r *Registry) Invoke(name string, inputs ...*Array) ([]*Array, error) {
	d, ok := r.Lookup(name)
	if !ok {
		return nil, opError(word2vec.InvalidConfiguration, "unknown operator %q", name)
	}
	if err := d.checkInputs(inputs); err != nil {
		return nil, err
	}
	shapes, err := d.Shape(inputs)
	if err != nil {
		return nil, err
	}
	if len(shapes) != d.NumOutputs {
		return nil, opError(word2vec.ShapeMismatch, "operator %s: %d output shapes for %d outputs",
			d.Name, len(shapes), d.NumOutputs)
	}
	outputs, err := d.Exec(inputs)
	if err != nil {
		return nil, err
	}
	if err := d.checkOutputs(outputs, shapes); err != nil {
		return nil, err
	}
	return outputs, nil
}

func sameShape(s1, s2 []int) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i, x := range s1 {
		if s2[i] != x {
			return false
		}
	}
	return true
}
