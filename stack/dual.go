package stack

// DualStack partitions one buffer into a top down region over the
// upper half and a bottom up region over the lower half. The two
// heads converge on the midpoint; the variant does not police a
// collision, sizing the halves is the caller's responsibility.
type DualStack struct {
	top    *Stack
	bottom *Stack
}

// NewDualStack create a dual stack over the supplied buffer.
func NewDualStack(memory []byte) *DualStack {
	half := len(memory) / 2
	return &DualStack{
		top:    newstack(memory[half:], true),
		bottom: newstack(memory[:half], false),
	}
}

// Top return the top down region.
func (d *DualStack) Top() *Stack {
	return d.top
}

// Bottom return the bottom up region.
func (d *DualStack) Bottom() *Stack {
	return d.bottom
}
