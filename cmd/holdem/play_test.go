package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-advisor/internal/advisor"
	"github.com/lox/holdem-advisor/internal/display"
	"github.com/lox/holdem-advisor/internal/game"
)

// scriptedPrompt answers each read request with the next scripted line,
// stamped with the clock's current time.
func scriptedPrompt(t *testing.T, clock quartz.Clock, script ...string) (*prompt, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	p := &prompt{
		out:      out,
		r:        &display.Renderer{Styles: display.PlainStyles()},
		clock:    clock,
		requests: make(chan struct{}),
		lines:    make(chan line, 1),
	}
	go func() {
		for _, text := range script {
			if _, ok := <-p.requests; !ok {
				return
			}
			p.lines <- line{text: text, at: clock.Now()}
		}
	}()
	t.Cleanup(func() { close(p.requests) })
	return p, out
}

func TestPromptDropsLineTypedBeforeDecision(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	p, out := scriptedPrompt(t, clock, "call")

	// A read left over from a timed-out decision delivered "fold" late.
	p.pending = true
	p.lines <- line{text: "fold", at: clock.Now().Add(-time.Second)}

	s, err := (&AdviseCmd{Hole: "AhKd", Pot: 60, ToCall: 20, Stack: 500, Players: 2, BigBlind: 10}).spot()
	require.NoError(t, err)

	d, err := p.Decide(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, advisor.Decision{Kind: game.Call, Amount: 20}, d)
	assert.Contains(t, out.String(), `Ignored "fold"`)
}

func TestPromptKeepsLineTypedDuringDecision(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	p, out := scriptedPrompt(t, clock, "raise 60")

	s, err := (&AdviseCmd{Hole: "AhKd", Pot: 60, ToCall: 20, Stack: 500, Players: 2, BigBlind: 10}).spot()
	require.NoError(t, err)

	d, err := p.Decide(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, advisor.Decision{Kind: game.Raise, Amount: 60}, d)
	assert.NotContains(t, out.String(), "Ignored")
}

func TestPromptTimeoutLeavesReadPending(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	p, _ := scriptedPrompt(t, clock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	go func() { <-p.requests }()
	_, err := p.readLine(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, p.pending, "the next decision reuses the outstanding read")
}
