package connectivity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitch_NotifiesOnTransitionsOnly(t *testing.T) {
	s := NewSwitch(false)
	var got []bool
	cancel := s.OnChange(func(online bool) { got = append(got, online) })

	assert.False(t, s.Set(false))
	assert.True(t, s.Set(true))
	assert.False(t, s.Set(true))
	assert.True(t, s.Set(false))
	assert.Equal(t, []bool{true, false}, got)

	cancel()
	cancel()
	s.Set(true)
	assert.Equal(t, []bool{true, false}, got)
	assert.True(t, s.IsOnline())
}

func TestSwitch_ListenersInSubscriptionOrder(t *testing.T) {
	var s Switch
	var order []int
	s.OnChange(func(bool) { order = append(order, 1) })
	s.OnChange(func(bool) { order = append(order, 2) })

	s.Set(true)
	assert.Equal(t, []int{1, 2}, order)
}

func TestSwitch_ListenerMayReadState(t *testing.T) {
	s := NewSwitch(false)
	var seen bool
	s.OnChange(func(bool) { seen = s.IsOnline() })
	s.Set(true)
	assert.True(t, seen)
}

type fakePinger struct {
	err   atomic.Value
	calls atomic.Int32
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	if v := f.err.Load(); v != nil {
		return v.(error)
	}
	return nil
}

func TestProber_CheckFlipsState(t *testing.T) {
	p := &fakePinger{}
	pr := NewProber(p, time.Hour, logging.NopLogger{})
	require.False(t, pr.IsOnline())

	var events []bool
	pr.OnChange(func(online bool) { events = append(events, online) })

	assert.True(t, pr.Check(context.Background()))
	p.err.Store(errors.New("down"))
	assert.False(t, pr.Check(context.Background()))
	assert.False(t, pr.Check(context.Background()))

	assert.Equal(t, []bool{true, false}, events)
	assert.EqualValues(t, 3, p.calls.Load())
}

func TestProber_RunStopsOnCancel(t *testing.T) {
	p := &fakePinger{}
	pr := NewProber(p, 5*time.Millisecond, logging.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pr.Run(ctx)
		close(done)
	}()

	require.Eventually(t, pr.IsOnline, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestGate_Do(t *testing.T) {
	s := NewSwitch(false)
	g := NewGate(s, logging.NopLogger{})
	ctx := context.Background()

	called := false
	res := g.Do(ctx, "create", func(context.Context) error { called = true; return nil })
	assert.Equal(t, StatusSkipped, res.Status)
	assert.False(t, called)
	assert.False(t, g.IsOnline())

	s.Set(true)
	res = g.Do(ctx, "create", func(context.Context) error { called = true; return nil })
	assert.True(t, res.OK())
	assert.True(t, called)

	boom := errors.New("boom")
	res = g.Do(ctx, "create", func(context.Context) error { return boom })
	assert.Equal(t, StatusRemoteFailed, res.Status)
	assert.ErrorIs(t, res.Err, boom)
}

func TestGate_ReadsSignalEveryCall(t *testing.T) {
	s := NewSwitch(true)
	g := NewGate(s, logging.NopLogger{})

	assert.True(t, g.Do(context.Background(), "a", func(context.Context) error { return nil }).OK())
	s.Set(false)
	assert.Equal(t, StatusSkipped, g.Do(context.Background(), "a", func(context.Context) error { return nil }).Status)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "remote_failed", StatusRemoteFailed.String())
	assert.Equal(t, "skipped", StatusSkipped.String())
	assert.Equal(t, "unknown", Status(42).String())
}
