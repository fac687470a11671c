package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passGuard(ctx *Context) *Result {
	return &Result{Passed: true}
}

func failGuard(reason string) Func {
	return func(ctx *Context) *Result {
		return &Result{Passed: false, Reason: reason}
	}
}

func TestEmptySetPasses(t *testing.T) {
	s := NewSet()
	result := s.CheckSafe("anything", nil)
	assert.True(t, result.Passed)
}

func TestCheckSafeStopsAtFirstFailure(t *testing.T) {
	var ran []string
	s := NewSet()
	s.Add("first", func(ctx *Context) *Result {
		ran = append(ran, "first")
		return &Result{Passed: true}
	})
	s.Add("second", func(ctx *Context) *Result {
		ran = append(ran, "second")
		return &Result{Passed: false, Reason: "blocked"}
	})
	s.Add("third", func(ctx *Context) *Result {
		ran = append(ran, "third")
		return &Result{Passed: true}
	})

	result := s.CheckSafe("msg", nil)
	assert.False(t, result.Passed)
	assert.Equal(t, "second", result.GuardName)
	assert.Equal(t, "blocked", result.Reason)
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestCheckReturnsTriggeredError(t *testing.T) {
	s := NewSet()
	s.Add("blocker", failGuard("nope"))

	err := s.Check("msg", nil)
	require.Error(t, err)
	var trig *Triggered
	require.ErrorAs(t, err, &trig)
	assert.Equal(t, "blocker", trig.GuardName)
	assert.Equal(t, "nope", trig.Reason)
}

func TestCheckPassesCleanText(t *testing.T) {
	s := NewSet()
	s.Add("ok", passGuard)
	assert.NoError(t, s.Check("msg", nil))
}

func TestPanickingGuardFailsClosed(t *testing.T) {
	s := NewSet()
	s.Add("panicky", func(ctx *Context) *Result {
		panic("boom")
	})

	result := s.CheckSafe("msg", nil)
	assert.False(t, result.Passed)
	assert.Equal(t, "panicky", result.GuardName)
	assert.Contains(t, result.Reason, "boom")
}

func TestGuardsSeeExtraData(t *testing.T) {
	s := NewSet()
	s.Add("extra", func(ctx *Context) *Result {
		if v, _ := ctx.Extra["user_id"].(int64); v == 42 {
			return &Result{Passed: false, Reason: "user 42 blocked"}
		}
		return &Result{Passed: true}
	})

	assert.True(t, s.CheckSafe("msg", map[string]any{"user_id": int64(7)}).Passed)
	assert.False(t, s.CheckSafe("msg", map[string]any{"user_id": int64(42)}).Passed)
}

func TestNilExtraDoesNotPanic(t *testing.T) {
	s := NewSet()
	s.Add("reads_extra", func(ctx *Context) *Result {
		_ = ctx.Extra["missing"]
		return &Result{Passed: true}
	})
	assert.True(t, s.CheckSafe("msg", nil).Passed)
}

func TestLen(t *testing.T) {
	s := NewSet()
	assert.Equal(t, 0, s.Len())
	s.Add("a", passGuard)
	s.Add("b", passGuard)
	assert.Equal(t, 2, s.Len())
}
