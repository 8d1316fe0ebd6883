package inject

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls   []string
	failOn  string
	failErr error
}

func (r *recorder) SendText(_ context.Context, text string) error {
	r.calls = append(r.calls, "text:"+text)
	if r.failOn == "text" {
		return r.failErr
	}
	return nil
}

func (r *recorder) SendEnter(context.Context) error {
	r.calls = append(r.calls, "enter")
	if r.failOn == "enter" {
		return r.failErr
	}
	return nil
}

func TestChatSaysTextThenEnter(t *testing.T) {
	rec := &recorder{}
	c := NewChat(rec, 0, 0, zerolog.Nop())
	require.NoError(t, c.Say(context.Background(), "@플레이봇 강화"))
	assert.Equal(t, []string{"text:@플레이봇 강화", "enter"}, rec.calls)
}

func TestChatStopsOnTextError(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{failOn: "text", failErr: boom}
	err := NewChat(rec, 0, 0, zerolog.Nop()).Say(context.Background(), "@플레이봇 판매")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"text:@플레이봇 판매"}, rec.calls)
}

func TestChatCancelledBeforeTyping(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	err := NewChat(rec, DefaultPreType, 0, zerolog.Nop()).Say(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.calls)
}

func TestCommandSubstitutesText(t *testing.T) {
	c := NewCommand([]string{"echo", "{text}"}, []string{"true"})
	err := c.SendText(context.Background(), "@플레이봇 강화")
	if errors.Is(err, exec.ErrNotFound) {
		t.Skip("echo not installed")
	}
	assert.NoError(t, err)

	err = NewCommand([]string{"false"}, nil).SendText(context.Background(), "x")
	if errors.Is(err, exec.ErrNotFound) {
		t.Skip("false not installed")
	}
	assert.Error(t, err)
}

func TestNewCommandDefaults(t *testing.T) {
	c := NewCommand(nil, nil)
	assert.Equal(t, DefaultTypeCommand, c.TypeArgs)
	assert.Equal(t, DefaultEnterCommand, c.EnterArgs)
}
