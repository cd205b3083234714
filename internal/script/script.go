// Package script compiles Lua snippets into render hooks and dynamic
// configuration values. The state is sandboxed (no io, os, debug, or
// package libraries) and calls are mutex-serialized; gopher-lua states
// are not goroutine-safe.
package script

import (
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/chime/internal/notify"
	"github.com/dshills/chime/internal/renderer"
)

// ErrEngineClosed is returned by operations on a closed engine.
var ErrEngineClosed = errors.New("script engine closed")

// Engine owns one sandboxed Lua state shared by all compiled hooks.
type Engine struct {
	mu     sync.Mutex
	l      *lua.LState
	closed bool
}

// New creates an engine with only the base, table, string, and math
// libraries opened.
func New() *Engine {
	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(l)
	lua.OpenTable(l)
	lua.OpenString(l)
	lua.OpenMath(l)
	return &Engine{l: l}
}

// Load executes a script that defines hook functions as globals.
func (e *Engine) Load(source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("script panic: %v", r)
			}
		}()
		err = e.l.DoString(source)
	}()
	if err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	return nil
}

// LoadFile executes a script file that defines hook functions.
func (e *Engine) LoadFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("script panic: %v", r)
			}
		}()
		err = e.l.DoFile(path)
	}()
	if err != nil {
		return fmt.Errorf("load script %s: %w", path, err)
	}
	return nil
}

// Defined reports whether a global function with the name exists.
func (e *Engine) Defined(fn string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false
	}
	return e.l.GetGlobal(fn).Type() == lua.LTFunction
}

// Close releases the Lua state. Hooks compiled from this engine
// degrade to their fallbacks afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.l.Close()
	e.closed = true
	return nil
}

// MessageHook adapts the named global function to a renderer hook.
// The function receives (message, count) and returns the render text,
// optionally followed by a visibility boolean; returning nil or false
// in place of the text suppresses the item. Missing functions, Lua
// errors, and panics all fall back to the unmodified message.
func (e *Engine) MessageHook(fn string) renderer.MessageHook {
	return func(message string, count int) (string, bool) {
		ret, err := e.call(fn, lua.LString(message), lua.LNumber(count))
		if err != nil {
			return message, true
		}

		text := message
		if len(ret) > 0 {
			switch v := ret[0].(type) {
			case lua.LString:
				text = string(v)
			default:
				if !lua.LVAsBool(ret[0]) {
					return "", false
				}
			}
		}
		if len(ret) > 1 && !lua.LVAsBool(ret[1]) {
			return "", false
		}
		return text, true
	}
}

// Value adapts the named global function to a dynamic config value.
// The function receives (unix_ms, item_count) and returns a string;
// errors resolve to "".
func (e *Engine) Value(fn string) notify.Value {
	return notify.Dynamic(func(now time.Time, items []*notify.Item) string {
		ret, err := e.call(fn, lua.LNumber(now.UnixMilli()), lua.LNumber(len(items)))
		if err != nil || len(ret) == 0 {
			return ""
		}
		return lua.LVAsString(ret[0])
	})
}

// call invokes a global Lua function with panic recovery, collecting
// every returned value.
func (e *Engine) call(fn string, args ...lua.LValue) ([]lua.LValue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}

	fnVal := e.l.GetGlobal(fn)
	if fnVal.Type() != lua.LTFunction {
		return nil, fmt.Errorf("script function %q not defined", fn)
	}

	top := e.l.GetTop()
	e.l.Push(fnVal)
	for _, a := range args {
		e.l.Push(a)
	}

	var callErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				callErr = fmt.Errorf("script panic: %v", r)
			}
		}()
		callErr = e.l.PCall(len(args), lua.MultRet, nil)
	}()
	if callErr != nil {
		return nil, callErr
	}

	n := e.l.GetTop() - top
	out := make([]lua.LValue, n)
	for i := 0; i < n; i++ {
		out[i] = e.l.Get(top + i + 1)
	}
	e.l.Pop(n)
	return out, nil
}
