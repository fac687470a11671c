// Package guard runs named text checks over inbound and outbound messages.
// The community bot uses it for moderation (flood, links, blacklist) and the
// reply pipeline uses it for content rules (promo, finance language).
package guard

import (
	"fmt"
	"sync"
)

// Triggered is returned when a guard blocks a message.
type Triggered struct {
	GuardName string
	Reason    string
}

func (e *Triggered) Error() string {
	return fmt.Sprintf("guard triggered: %s: %s", e.GuardName, e.Reason)
}

// Context is passed to guard functions.
type Context struct {
	// Text is the message body under inspection.
	Text string
	// Extra carries caller-specific data (user ID, chat type, entity info).
	Extra map[string]any
}

// Result holds the outcome of a single guard check.
type Result struct {
	Passed    bool
	Reason    string
	GuardName string
}

// Func is the signature for guard check functions.
type Func func(ctx *Context) *Result

type guardDef struct {
	name string
	fn   Func
}

// Set runs an ordered list of guards and stops at the first failure.
type Set struct {
	guards []guardDef
	mu     sync.RWMutex
}

// NewSet creates an empty guard set.
func NewSet() *Set {
	return &Set{}
}

// Add registers a guard. Guards run in registration order.
func (s *Set) Add(name string, fn Func) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guards = append(s.guards, guardDef{name: name, fn: fn})
}

// Len returns the number of registered guards.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.guards)
}

// Check runs all guards. Returns a *Triggered error on the first failure.
func (s *Set) Check(text string, extra map[string]any) error {
	result := s.CheckSafe(text, extra)
	if !result.Passed {
		return &Triggered{GuardName: result.GuardName, Reason: result.Reason}
	}
	return nil
}

// CheckSafe runs all guards and returns the first failing result, or a
// passing result when every guard passes.
func (s *Set) CheckSafe(text string, extra map[string]any) *Result {
	s.mu.RLock()
	guards := make([]guardDef, len(s.guards))
	copy(guards, s.guards)
	s.mu.RUnlock()

	if len(guards) == 0 {
		return &Result{Passed: true}
	}
	if extra == nil {
		extra = make(map[string]any)
	}

	ctx := &Context{Text: text, Extra: extra}
	for _, gd := range guards {
		result := execOne(gd, ctx)
		if !result.Passed {
			return result
		}
	}
	return &Result{Passed: true}
}

func execOne(gd guardDef, ctx *Context) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &Result{
				Passed:    false,
				Reason:    fmt.Sprintf("guard panic: %v", r),
				GuardName: gd.name,
			}
		}
	}()
	result = gd.fn(ctx)
	result.GuardName = gd.name
	return result
}
