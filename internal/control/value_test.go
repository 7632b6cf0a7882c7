package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UpdateShownWhenClean(t *testing.T) {
	t.Parallel()
	sched := NewManualScheduler()
	var shown []float64
	v := NewValue(sched, 0, func(x float64) { shown = append(shown, x) })

	v.Update(3)

	assert.Equal(t, 3.0, v.Shown())
	assert.False(t, v.Dirty())
	assert.Equal(t, []float64{3}, shown)
}

func TestValue_PresetYieldsToRealValues(t *testing.T) {
	t.Parallel()
	v := NewValue(NewManualScheduler(), 0, nil)

	v.Preset(50)
	assert.Equal(t, 50.0, v.Shown())
	_, known := v.Authoritative()
	assert.False(t, known)

	v.Update(20)
	v.Preset(50)
	assert.Equal(t, 20.0, v.Shown())
}

func TestValue_AuthoritativeBufferedDuringWindow(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	sched := NewManualScheduler()
	v := NewValue(sched, DefaultWindow, nil)
	v.Update(1)

	// --- Act ---
	v.Input(5)
	sched.Advance(500 * time.Millisecond)
	v.Update(7)

	// --- Assert ---
	require.True(t, v.Dirty())
	assert.Equal(t, 5.0, v.Shown(), "authoritative value must not overwrite a settling edit")

	sched.Advance(500 * time.Millisecond)
	assert.False(t, v.Dirty())
	assert.Equal(t, 7.0, v.Shown())
}

func TestValue_FurtherEditRestartsWindow(t *testing.T) {
	t.Parallel()
	sched := NewManualScheduler()
	v := NewValue(sched, DefaultWindow, nil)
	v.Update(1)

	v.Input(5)
	sched.Advance(800 * time.Millisecond)
	v.Input(6)
	sched.Advance(800 * time.Millisecond)

	assert.True(t, v.Dirty(), "second edit opened a new window")
	assert.Equal(t, 6.0, v.Shown())

	sched.Advance(200 * time.Millisecond)
	assert.False(t, v.Dirty())
	assert.Equal(t, 1.0, v.Shown(), "reverts to the last authoritative value")
	assert.Equal(t, 0, sched.Pending())
}

func TestValue_NoAuthoritativeKeepsLocalEdit(t *testing.T) {
	t.Parallel()
	sched := NewManualScheduler()
	v := NewValue(sched, DefaultWindow, nil)

	v.Input(4)
	sched.Advance(time.Second)

	assert.False(t, v.Dirty())
	assert.Equal(t, 4.0, v.Shown())
	_, known := v.Authoritative()
	assert.False(t, known)
}

func TestValue_StopCancelsSettle(t *testing.T) {
	t.Parallel()
	sched := NewManualScheduler()
	v := NewValue(sched, DefaultWindow, nil)
	v.Update(2)
	v.Input(9)

	v.Stop()
	sched.Advance(2 * time.Second)

	assert.Equal(t, 9.0, v.Shown())
	assert.False(t, v.Dirty())
}

func TestManualScheduler_RunsInDeadlineOrder(t *testing.T) {
	t.Parallel()
	sched := NewManualScheduler()
	var order []string
	sched.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	sched.AfterFunc(time.Second, func() { order = append(order, "a") })
	stopped := sched.AfterFunc(time.Second, func() { order = append(order, "never") })
	require.True(t, stopped.Stop())

	sched.Advance(3 * time.Second)

	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 3*time.Second, sched.Now())
	assert.False(t, stopped.Stop())
}
