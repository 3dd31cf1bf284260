package main

// Scope tracks which names have been declared, as a stack of name sets.
// Code generation consults it to decide between emitting a declaration
// (`DynamicType x = ...;`) and a plain reassignment (`x = ...;`): the first
// binding of a name visible from the current scope declares it, every later
// binding reassigns. Lookups walk from the innermost scope outward, so an
// inner binding of an outer name reassigns rather than shadows.
type Scope struct {
	frames []map[string]bool
}

// NewScope returns a scope stack holding only the global frame.
func NewScope() *Scope {
	return &Scope{frames: []map[string]bool{{}}}
}

// EnterScope pushes a fresh frame for a function body or other nested
// region.
func (s *Scope) EnterScope() {
	s.frames = append(s.frames, map[string]bool{})
}

// ExitScope pops the innermost frame. Popping the global frame is a logic
// error in the generator, not a user error.
func (s *Scope) ExitScope() {
	if len(s.frames) <= 1 {
		panic("scope: exit below global frame")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Pop is the soft variant of ExitScope: it no-ops at the global frame.
func (s *Scope) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Declare records a name in the innermost frame. Declaring a name twice is
// harmless.
func (s *Scope) Declare(name string) {
	s.frames[len(s.frames)-1][name] = true
}

// Exists reports whether a name is declared in any enclosing frame.
func (s *Scope) Exists(name string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i][name] {
			return true
		}
	}
	return false
}

// Depth returns the number of frames currently on the stack.
func (s *Scope) Depth() int {
	return len(s.frames)
}

// Reset drops everything back to a single empty global frame.
func (s *Scope) Reset() {
	s.frames = []map[string]bool{{}}
}
