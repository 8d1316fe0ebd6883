// Package inject types chat commands into the focused window.
package inject

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"reinforcebot/process/pace"
)

// Default pauses around a chat message.
const (
	DefaultPreType   = 1200 * time.Millisecond
	DefaultTypePause = 300 * time.Millisecond
)

// Default xdotool invocations. {text} is replaced with the message.
var (
	DefaultTypeCommand  = []string{"xdotool", "type", "--delay", "20", "--", "{text}"}
	DefaultEnterCommand = []string{"xdotool", "key", "Return"}
)

// Injector sends keystrokes to the target surface.
type Injector interface {
	SendText(ctx context.Context, text string) error
	SendEnter(ctx context.Context) error
}

// Command injects keystrokes by running external tools.
type Command struct {
	TypeArgs  []string
	EnterArgs []string
}

// NewCommand returns a Command injector; empty argument lists select the xdotool defaults.
func NewCommand(typeArgs, enterArgs []string) *Command {
	if len(typeArgs) == 0 {
		typeArgs = DefaultTypeCommand
	}
	if len(enterArgs) == 0 {
		enterArgs = DefaultEnterCommand
	}
	return &Command{TypeArgs: typeArgs, EnterArgs: enterArgs}
}

// SendText types text.
func (c *Command) SendText(ctx context.Context, text string) error {
	args := make([]string, len(c.TypeArgs))
	for i, a := range c.TypeArgs {
		args[i] = strings.ReplaceAll(a, "{text}", text)
	}
	return run(ctx, args)
}

// SendEnter presses Enter.
func (c *Command) SendEnter(ctx context.Context) error {
	return run(ctx, c.EnterArgs)
}

func run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w (stderr: %s)", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Chat sends a message the way a person would: wait for the previous card to
// settle, type, pause, press Enter.
type Chat struct {
	in        Injector
	PreType   time.Duration
	TypePause time.Duration
	log       zerolog.Logger
}

// NewChat wraps in with the given pauses.
func NewChat(in Injector, preType, typePause time.Duration, log zerolog.Logger) *Chat {
	return &Chat{in: in, PreType: preType, TypePause: typePause, log: log}
}

// Say sends msg followed by Enter.
func (c *Chat) Say(ctx context.Context, msg string) error {
	if err := pace.Wait(ctx, c.PreType); err != nil {
		return err
	}
	if err := c.in.SendText(ctx, msg); err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	if err := pace.Wait(ctx, c.TypePause); err != nil {
		return err
	}
	if err := c.in.SendEnter(ctx); err != nil {
		return fmt.Errorf("send enter: %w", err)
	}
	c.log.Debug().Str("msg", msg).Msg("sent")
	return nil
}
