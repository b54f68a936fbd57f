package stack

// Scope records the stack's head at creation and rewinds to it on
// Close, typically with defer:
//
//	scope := NewScope(s)
//	defer scope.Close()
type Scope struct {
	stack  *Stack
	marker Marker
}

// NewScope open a scope on the stack.
func NewScope(s *Stack) *Scope {
	return &Scope{stack: s, marker: s.Head()}
}

// Close rewind every allocation made since the scope was opened.
func (sc *Scope) Close() {
	sc.stack.Free(sc.marker)
}
