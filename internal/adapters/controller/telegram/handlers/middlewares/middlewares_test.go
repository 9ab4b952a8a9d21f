package middlewares

import (
	"context"
	"testing"
	"time"

	"github.com/nlypage/intele"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type stubContext struct {
	tele.Context
	message  *tele.Message
	callback *tele.Callback
}

func (s stubContext) Message() *tele.Message   { return s.message }
func (s stubContext) Callback() *tele.Callback { return s.callback }
func (s stubContext) Sender() *tele.User       { return &tele.User{ID: 7} }

func pendingInput(input *intele.InputManager) chan bool {
	got := make(chan bool, 1)
	go func() {
		_, canceled, _ := input.Get(context.Background(), 7, 0)
		got <- canceled
	}()
	time.Sleep(50 * time.Millisecond)
	return got
}

func TestResetInputOnBackCancelsOnCommand(t *testing.T) {
	input := intele.NewInputManager(intele.InputOptions{})
	h := Handler{input: input}

	got := pendingInput(input)

	var nextCalled bool
	err := h.ResetInputOnBack(func(tele.Context) error {
		nextCalled = true
		return nil
	})(stubContext{message: &tele.Message{Text: "/cancel"}})
	require.NoError(t, err)
	assert.True(t, nextCalled)

	select {
	case canceled := <-got:
		assert.True(t, canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("pending input was not canceled")
	}
}

func TestResetInputOnBackKeepsPlainTextPending(t *testing.T) {
	input := intele.NewInputManager(intele.InputOptions{})
	h := Handler{input: input}

	got := pendingInput(input)

	err := h.ResetInputOnBack(func(tele.Context) error {
		return nil
	})(stubContext{message: &tele.Message{Text: "обычный текст"}})
	require.NoError(t, err)

	select {
	case <-got:
		t.Fatal("plain text must not cancel pending input")
	case <-time.After(100 * time.Millisecond):
	}
	input.Cancel(7)
}
