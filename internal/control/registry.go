package control

import (
	"io"
	"log/slog"
	"sort"
)

// Setter pushes a locally edited value to the audio-control transport.
type Setter interface {
	SetValue(addr Addr, value int) error
}

// SetterFunc adapts a function to the Setter interface.
type SetterFunc func(addr Addr, value int) error

func (f SetterFunc) SetValue(addr Addr, value int) error {
	return f(addr, value)
}

// Registry is the ordered collection of live controls, kept in sync with
// the transport. It exclusively owns all Control entities; callers never
// hold references across mutations. All methods must be called from the
// dispatcher thread.
type Registry struct {
	logger   *slog.Logger
	setter   Setter
	controls []*Control // sorted by Compare, groups contiguous
}

// NewRegistry builds an empty registry that pushes edits through setter.
func NewRegistry(setter Setter, logger *slog.Logger) *Registry {
	if setter == nil {
		setter = SetterFunc(func(Addr, int) error { return nil })
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{logger: logger, setter: setter}
}

// Len returns the number of live controls.
func (r *Registry) Len() int {
	return len(r.controls)
}

// Controls returns a copy of the registry contents in iteration order.
func (r *Registry) Controls() []Control {
	out := make([]Control, len(r.controls))
	for i, c := range r.controls {
		out[i] = *c
	}
	return out
}

// Insert adds a control mirroring a transport "added" notification. An
// existing control with the same address is removed first, since the
// transport may reuse addresses. Descriptors of unsupported kinds are
// dropped without creating an entity.
func (r *Registry) Insert(desc Desc, value int) {
	r.Remove(desc.Addr)
	if !desc.Kind.Valid() {
		r.logger.Debug("ignoring control of unsupported kind", "control", desc.String())
		return
	}
	i := sort.Search(len(r.controls), func(i int) bool {
		return Compare(r.controls[i].Desc, desc) >= 0
	})
	c := &Control{Desc: desc, Value: value}
	r.controls = append(r.controls, nil)
	copy(r.controls[i+1:], r.controls[i:])
	r.controls[i] = c
}

// Remove drops the control with the given address; no-op if absent.
func (r *Registry) Remove(addr Addr) {
	for i, c := range r.controls {
		if c.Addr == addr {
			r.controls = append(r.controls[:i], r.controls[i+1:]...)
			return
		}
	}
}

// Clear drops every control, used when the transport connection is lost
// and its addresses become invalid.
func (r *Registry) Clear() {
	r.controls = nil
}

// ApplyExternal records a value-change notification from the transport.
// For selector entries the notification is one-hot: the named entry
// becomes the active option and all its group siblings are reset.
func (r *Registry) ApplyExternal(addr Addr, value int) {
	c := r.find(addr)
	if c == nil {
		return
	}
	if c.Kind == KindSelector {
		for _, o := range r.controls {
			if o.SameGroup(c.Desc) {
				o.Value = 0
			}
		}
		c.Value = 1
		return
	}
	c.Value = value
}

// Apply locates the top-level control group (name, fn) and applies the
// edit rule for dir to each member found by group traversal. It reports
// whether any value changed, which is the signal that audible feedback is
// due. An empty group is a no-op.
func (r *Registry) Apply(name, fn string, dir Direction) bool {
	changed := false
	for i := 0; i < len(r.controls); {
		c := r.controls[i]
		if c.Group != "" || c.Name != name || c.Func != fn {
			i++
			continue
		}
		end := r.groupEnd(i)
		if c.Kind == KindSelector {
			if dir == Cycle {
				changed = r.cycleSelector(i, end) || changed
			}
			// Increase/Decrease are meaningless for selectors: the
			// binding may legitimately target the wrong kind, so this
			// is a silent no-op rather than an error.
		} else {
			for m := i; m < end; m++ {
				changed = r.editMember(r.controls[m], dir) || changed
			}
		}
		i = end
	}
	return changed
}

// groupEnd returns the index one past the last member of the control
// group starting at index start. Groups are contiguous under the total
// order, so this is a bounded forward scan.
func (r *Registry) groupEnd(start int) int {
	end := start + 1
	for end < len(r.controls) && r.controls[end].SameGroup(r.controls[start].Desc) {
		end++
	}
	return end
}

// editMember applies a non-selector edit rule to a single group member.
// Combinations of kind and direction with no defined rule are no-ops.
func (r *Registry) editMember(c *Control, dir Direction) bool {
	switch {
	case c.Kind == KindNumeric && c.MaxValue > 1 && (dir == Increase || dir == Decrease):
		step := (c.MaxValue + NumSteps - 1) / NumSteps
		val := c.Value
		if dir == Increase {
			val += step
		} else {
			val -= step
		}
		if val < 0 {
			val = 0
		}
		if val > c.MaxValue {
			val = c.MaxValue
		}
		if val == c.Value {
			return false
		}
		c.Value = val
		r.push(c)
		return true
	case c.MaxValue == 1 && dir == Cycle:
		c.Value = 1 - c.Value
		r.push(c)
		return true
	default:
		return false
	}
}

// cycleSelector advances the selector group [start, end) from its active
// entry to the next one in group order, wrapping around. A group whose
// only entry is the active one is a no-op; a group with no active entry
// is malformed upstream state and is skipped.
func (r *Registry) cycleSelector(start, end int) bool {
	cur := -1
	for i := start; i < end; i++ {
		if r.controls[i].Value == 1 {
			cur = i
			break
		}
	}
	if cur < 0 {
		r.logger.Info("selector group has no active entry, skipping",
			"control", r.controls[start].String())
		return false
	}
	next := cur + 1
	if next == end {
		next = start
	}
	if next == cur {
		return false
	}
	r.controls[cur].Value = 0
	r.controls[next].Value = 1
	r.push(r.controls[next])
	return true
}

// push sends a locally edited value to the transport. Failures are logged
// and otherwise ignored; the dispatcher notices a dead transport on the
// next edit attempt.
func (r *Registry) push(c *Control) {
	r.logger.Info("setting control", "control", c.String(), "value", c.Value)
	if err := r.setter.SetValue(c.Addr, c.Value); err != nil {
		r.logger.Warn("push control value", "control", c.String(), "error", err.Error())
	}
}

func (r *Registry) find(addr Addr) *Control {
	for _, c := range r.controls {
		if c.Addr == addr {
			return c
		}
	}
	return nil
}
