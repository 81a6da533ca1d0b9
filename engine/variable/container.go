package variable

import (
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/types"
)

// Mode is the storage state of a Container: aliasing a shared immutable
// collection, or holding a private buffer.
type Mode uint8

const (
	// Owned storage belongs to this container alone and may be mutated
	// in place.
	Owned Mode = iota
	// Shared storage is aliased by at least one other container; the
	// first mutation allocates a private copy.
	Shared
)

// storage is the backing buffer a Container points at. Shared containers
// alias the same storage until one of them mutates.
type storage struct {
	list  []Variable
	index map[string]int
}

func newStorage() *storage {
	return &storage{index: map[string]int{}}
}

func (s *storage) clone() *storage {
	out := &storage{
		list:  make([]Variable, len(s.list)),
		index: make(map[string]int, len(s.index)),
	}
	copy(out.list, s.list)
	for id, i := range s.index {
		out.index[id] = i
	}
	return out
}

// Container is an ordered, keyed collection of Variables sharing one
// category and purpose. At most one Variable exists per class ID. Only
// SetValue and ImportChanges may change values; everything else is
// read-only.
type Container struct {
	category types.VariableCategory
	purpose  Purpose
	mode     Mode
	data     *storage
}

// NewContainer creates an empty owned container for one category/purpose.
func NewContainer(category types.VariableCategory, purpose Purpose) Container {
	return Container{category: category, purpose: purpose, data: newStorage()}
}

// Clone returns a container aliasing the receiver's storage. Both ends are
// marked shared, so whichever side mutates first copies the buffer and
// leaves the other untouched.
func (c *Container) Clone() Container {
	c.mode = Shared
	return Container{category: c.category, purpose: c.purpose, mode: Shared, data: c.data}
}

// Mode reports whether the container currently owns its storage.
func (c *Container) Mode() Mode { return c.mode }

// Category returns the container's variable category.
func (c *Container) Category() types.VariableCategory { return c.category }

// Len returns the number of variables held.
func (c *Container) Len() int { return len(c.data.list) }

// At returns the variable at ordinal position i.
func (c *Container) At(i int) Variable { return c.data.list[i] }

// Get returns a copy of the variable for the given class ID.
func (c *Container) Get(classID string) (Variable, bool) {
	if i, ok := c.data.index[classID]; ok {
		return c.data.list[i], true
	}
	return Variable{}, false
}

// Value returns the current value for the given class ID, or zero when the
// container holds no such variable.
func (c *Container) Value(classID string) int {
	if v, ok := c.Get(classID); ok {
		return v.Value
	}
	return 0
}

// Each calls fn for every variable in insertion order until fn returns
// false.
func (c *Container) Each(fn func(Variable) bool) {
	for _, v := range c.data.list {
		if !fn(v) {
			return
		}
	}
}

// mutate prepares the container for writing, allocating a private copy of
// shared storage on first mutation.
func (c *Container) mutate() {
	if c.mode == Shared {
		c.data = c.data.clone()
		c.mode = Owned
	}
}

// SetValue sets the current value — or, when initial is true, the initial
// value — of the variable for class, clamping to the legal range and
// inserting the variable if absent. It reports whether anything changed.
//
// Setting the initial value of an attribute also resets its current value:
// attributes always derive from initial plus modifiers. Setting the initial
// value of a limited resource clamps the current value downward when it now
// exceeds the new cap.
//
// A category mismatch between class and container is a programmer error.
func (c *Container) SetValue(class *types.VariableClass, value int, initial bool) (bool, error) {
	if class == nil {
		return false, fault.Invariant("SetValue requires a variable class")
	}
	if class.Category != c.category {
		return false, fault.Invariant("variable class %q has the wrong category for this container", class.ID)
	}

	i, exists := c.data.index[class.ID]
	var cur Variable
	if exists {
		cur = c.data.list[i]
	} else {
		cur = Variable{Class: class, Purpose: c.purpose}
	}

	next := cur
	if initial {
		next.Initial = value
		if class.Category == types.Attribute {
			next.Value = value
		}
	} else {
		next.Value = value
	}
	next.clamp()

	if exists && next == cur {
		return false, nil
	}

	c.mutate()
	if exists {
		// Index positions survive the copy; re-read after mutate.
		c.data.list[c.data.index[class.ID]] = next
	} else {
		c.data.index[class.ID] = len(c.data.list)
		c.data.list = append(c.data.list, next)
	}
	return true, nil
}

// ImportChanges applies a batch of externally computed values (modifier
// recomputation) under the same clamp-and-copy discipline. Keys with no
// matching variable are silently ignored; ImportChanges never inserts.
// It reports whether anything changed.
func (c *Container) ImportChanges(values map[string]int) bool {
	changed := false
	for id, value := range values {
		i, ok := c.data.index[id]
		if !ok {
			continue
		}
		next := c.data.list[i]
		next.Value = value
		next.clamp()
		if next == c.data.list[i] {
			continue
		}
		c.mutate()
		c.data.list[c.data.index[id]] = next
		changed = true
	}
	return changed
}
