package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestScopeDeclareAndExists(t *testing.T) {
	s := NewScope()
	be.True(t, !s.Exists("x"))

	s.Declare("x")
	be.True(t, s.Exists("x"))

	// Declaring twice is harmless.
	s.Declare("x")
	be.True(t, s.Exists("x"))
}

func TestScopeInnerSeesOuter(t *testing.T) {
	s := NewScope()
	s.Declare("x")
	s.EnterScope()
	be.True(t, s.Exists("x"))

	s.Declare("y")
	be.True(t, s.Exists("y"))

	s.ExitScope()
	be.True(t, s.Exists("x"))
	be.True(t, !s.Exists("y"))
}

func TestScopeDepth(t *testing.T) {
	s := NewScope()
	be.Equal(t, s.Depth(), 1)
	s.EnterScope()
	s.EnterScope()
	be.Equal(t, s.Depth(), 3)
	s.ExitScope()
	be.Equal(t, s.Depth(), 2)
}

func TestScopePopIsSoftAtGlobal(t *testing.T) {
	s := NewScope()
	s.Pop()
	s.Pop()
	be.Equal(t, s.Depth(), 1)

	s.EnterScope()
	s.Pop()
	be.Equal(t, s.Depth(), 1)
}

func TestScopeExitBelowGlobalPanics(t *testing.T) {
	s := NewScope()
	defer func() {
		if recover() == nil {
			t.Fatal("ExitScope at global frame: expected panic")
		}
	}()
	s.ExitScope()
}

func TestScopeReset(t *testing.T) {
	s := NewScope()
	s.Declare("x")
	s.EnterScope()
	s.Declare("y")

	s.Reset()
	be.Equal(t, s.Depth(), 1)
	be.True(t, !s.Exists("x"))
	be.True(t, !s.Exists("y"))
}
