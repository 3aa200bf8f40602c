package ui

import (
	"context"
)

// confirmRequest is one pending prompt. reply is buffered so the answer never blocks the UI.
type confirmRequest struct {
	prompt string
	reply  chan bool
}

// channelConfirmer hands prompts to the UI loop and blocks until the user answers.
//
// Confirm runs inside a controller command, never on the UI goroutine.
type channelConfirmer struct {
	ctx      context.Context
	requests chan confirmRequest
}

func newChannelConfirmer(ctx context.Context) *channelConfirmer {
	return &channelConfirmer{ctx: ctx, requests: make(chan confirmRequest)}
}

func (c *channelConfirmer) Confirm(prompt string) bool {
	req := confirmRequest{prompt: prompt, reply: make(chan bool, 1)}

	select {
	case c.requests <- req:
	case <-c.ctx.Done():
		return false
	}

	select {
	case ok := <-req.reply:
		return ok
	case <-c.ctx.Done():
		return false
	}
}
