// Package luarules loads additional rule definitions from sandboxed Lua
// scripts.
//
// A script calls the global rule function once per rule:
//
//	rule {
//	    id = "LabelOverlap",
//	    description = "Labels must not overlap.",
//	    how_to_fix = function(props)
//	        return "Move the label " .. props["label"] .. " apart.", { "layout_margin" }
//	    end,
//	    include = function(props) return props["Severity"] ~= "Low" end,
//	}
//
// how_to_fix may also be a plain string, with code strings listed in a code
// field. include is optional.
package luarules

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds every script execution and rule call.
const DefaultExecutionTimeout = 2 * time.Second

// State wraps a gopher-lua state restricted to the base, table, string and
// math libraries. LState is not goroutine-safe; every entry point holds mu.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for each execution.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// NewState creates a sandboxed state.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	return s
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed. Strip the loaders base opens.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoString executes a chunk.
func (s *State) DoString(code string) error {
	return s.exec(func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// DoFile executes a file.
func (s *State) DoFile(path string) error {
	return s.exec(func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// Call calls fn with args converted to Lua values and returns its results.
func (s *State) Call(fn *lua.LFunction, args ...any) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.exec(func(L *lua.LState) error {
		top := L.GetTop()
		L.Push(fn)
		for _, arg := range args {
			L.Push(toLua(L, arg))
		}
		if err := L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}

		n := L.GetTop() - top
		results = make([]lua.LValue, n)
		for i := range n {
			results[i] = L.Get(top + i + 1)
		}
		L.Pop(n)
		return nil
	})
	return results, err
}

// exec runs fn under the lock with the execution timeout and panic recovery.
func (s *State) exec(fn func(L *lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn(s.L)
}

// Close releases the state. Later calls return ErrStateClosed.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
