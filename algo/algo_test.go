// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package algo

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/pbn/network"
	"github.com/dalzilio/pbn/symbolic"
)

type fakePartial struct{}

func (fakePartial) ApproxCardinality() float64 { return 42 }
func (fakePartial) SymbolicSize() int          { return 7 }

func TestHandlers(t *testing.T) {
	assert.False(t, Never.IsCancelled())

	a := NewAtomic()
	assert.False(t, a.IsCancelled())
	assert.True(t, a.Cancel())
	assert.False(t, a.Cancel(), "second cancel has no effect")
	assert.True(t, a.IsCancelled())

	timer := NewTimer(10 * time.Millisecond)
	assert.False(t, timer.IsCancelled())
	timer.StartTimer()
	timer.StartTimer()
	assert.Eventually(t, timer.IsCancelled, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	h := Context(ctx)
	assert.False(t, h.IsCancelled())
	cancel()
	assert.True(t, h.IsCancelled())

	b := NewAtomic()
	slow := NewTimer(time.Hour)
	both := Any(b, slow)
	both.StartTimer()
	assert.False(t, both.IsCancelled())
	b.Cancel()
	assert.True(t, both.IsCancelled())
	assert.False(t, Any().IsCancelled())
}

func TestErrors(t *testing.T) {
	calls := 0
	partial := func() Partial {
		calls++
		return fakePartial{}
	}
	require.NoError(t, Check(Never, partial))
	assert.Equal(t, 0, calls, "partial result is only computed on cancellation")

	a := NewAtomic()
	a.Cancel()
	err := Check(a, partial)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, IsCancelled(err))
	assert.Equal(t, "operation cancelled (partial result: 42 elements, 7 BDD nodes)", err.Error())

	wrapped := errors.Wrap(Fail(BddSizeLimitExceeded, fakePartial{}), "fixed points")
	assert.Equal(t, BddSizeLimitExceeded, KindOf(wrapped))
	assert.False(t, IsCancelled(wrapped))
	p, ok := PartialOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, 7, p.SymbolicSize())

	invalid := Fail(InvalidSubgraph, nil)
	assert.Equal(t, InvalidSubgraph.String(), invalid.Error())
	_, ok = PartialOf(invalid)
	assert.False(t, ok)
	assert.Equal(t, Kind(0), KindOf(errors.New("other")))
}

func TestConfig(t *testing.T) {
	bn, err := network.ParseAeonString("a -> b\nb -> a\nc -| c\n$a: b\n$b: a\n$c: !c")
	require.NoError(t, err)
	g, err := symbolic.NewAsyncGraph(bn)
	require.NoError(t, err)

	cfg := New(g)
	assert.Equal(t, math.MaxInt, cfg.BddSizeLimit)
	assert.Equal(t, math.MaxInt, cfg.StepsLimit)
	assert.Equal(t, Never, cfg.Cancellation)
	assert.Nil(t, cfg.Restriction)
	assert.Equal(t, g.Variables(), cfg.SortedVariables())
	assert.True(t, cfg.Candidates().Equal(g.UnitColoredVertices()))

	sub := g.MkSubspace(map[network.VariableID]bool{0: true})
	cfg = New(g, BddSizeLimit(100), StepsLimit(0), Variables(2, 0, 2), Restriction(sub))
	assert.Equal(t, 100, cfg.BddSizeLimit)
	assert.Equal(t, math.MaxInt, cfg.StepsLimit, "non positive limits are ignored")
	assert.Equal(t, []network.VariableID{0, 2}, cfg.SortedVariables())
	assert.True(t, cfg.Candidates().Equal(sub))
}

func TestDebugWithLimit(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.TraceLevel)
	entry := logger.WithField("target", "test")

	DebugWithLimit(entry, 10, "small %d", 10)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, log.TraceLevel, hook.LastEntry().Level)
	assert.Equal(t, "small 10", hook.LastEntry().Message)

	DebugWithLimit(entry, 200000, "large")
	assert.Equal(t, log.DebugLevel, hook.LastEntry().Level)
	assert.Equal(t, "test", hook.LastEntry().Data["target"])

	logger.SetLevel(log.DebugLevel)
	hook.Reset()
	DebugWithLimit(entry, 10, "hidden")
	assert.Empty(t, hook.Entries)
}
