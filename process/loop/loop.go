// Package loop runs the observe-decide-act cycle: capture the active region,
// read it, decide, type the command, wait, repeat.
package loop

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"

	"reinforcebot/models"
	"reinforcebot/pkg/ocr"
	"reinforcebot/pkg/reinforce"
	"reinforcebot/pkg/rotation"
	"reinforcebot/process/calibrate"
	"reinforcebot/process/capture"
	"reinforcebot/process/pace"
)

// DefaultTick is the pause between ticks.
const DefaultTick = 300 * time.Millisecond

// attempts per tick: one with settle delay, one immediate re-capture.
const attempts = 2

// ErrAmbiguous marks an observation that failed the trust gate.
var ErrAmbiguous = errors.New("observation not trustworthy")

// Reader recognizes a captured frame.
type Reader interface {
	Read(img image.Image) (models.Observation, error)
}

// Speaker types a chat message.
type Speaker interface {
	Say(ctx context.Context, msg string) error
}

// Commands are the chat messages for each action.
type Commands struct {
	Reinforce string
	Sell      string
}

// Update carries reloaded policy settings. The run mode is never updated.
type Update struct {
	Targets reinforce.Targets
	Items   reinforce.ItemRules
}

// Offer puts u into a one-slot channel, replacing any update not yet consumed.
func Offer(ch chan Update, u Update) {
	for {
		select {
		case ch <- u:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Options configures a Loop. Selector and Updates may be nil.
type Options struct {
	Capture  capture.Provider
	Reader   Reader
	Chat     Speaker
	Policy   *reinforce.Policy
	Gate     reinforce.TrustGate
	Rotator  *rotation.Rotator
	Selector calibrate.Selector
	Commands Commands
	Tick     time.Duration
	Updates  <-chan Update
	Log      zerolog.Logger
}

// Loop owns the policy and rotation state for one run. Neither is touched
// outside Tick and the boundary between ticks.
type Loop struct {
	capture  capture.Provider
	reader   Reader
	chat     Speaker
	policy   *reinforce.Policy
	gate     reinforce.TrustGate
	rotator  *rotation.Rotator
	selector calibrate.Selector
	commands Commands
	tick     time.Duration
	updates  <-chan Update
	log      zerolog.Logger
}

// New validates opts and returns a Loop.
func New(opts Options) (*Loop, error) {
	switch {
	case opts.Capture == nil:
		return nil, errors.New("loop: capture provider is required")
	case opts.Reader == nil:
		return nil, errors.New("loop: reader is required")
	case opts.Chat == nil:
		return nil, errors.New("loop: chat is required")
	case opts.Policy == nil:
		return nil, errors.New("loop: policy is required")
	case opts.Rotator == nil || opts.Rotator.Len() == 0:
		return nil, rotation.ErrNoRegions
	}
	if opts.Gate.MinConfidence <= 0 {
		opts.Gate = reinforce.NewTrustGate(0)
	}
	if opts.Tick < 0 {
		opts.Tick = DefaultTick
	}
	return &Loop{
		capture:  opts.Capture,
		reader:   opts.Reader,
		chat:     opts.Chat,
		policy:   opts.Policy,
		gate:     opts.Gate,
		rotator:  opts.Rotator,
		selector: opts.Selector,
		commands: opts.Commands,
		tick:     opts.Tick,
		updates:  opts.Updates,
		log:      opts.Log,
	}, nil
}

// Outcome describes one tick.
type Outcome struct {
	Region    int
	Abandoned bool
	Decision  reinforce.Decision
}

// Run ticks until ctx is cancelled or the policy says stop. Cancellation is a
// clean exit; fatal conditions such as an empty recalibration are returned.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info().
		Str("mode", l.policy.Mode.String()).
		Int("regions", l.rotator.Len()).
		Int("target_farm", l.policy.Targets.Farm).
		Int("target_challenge", l.policy.Targets.Challenge).
		Msg("loop started")

	for ticks := 1; ; ticks++ {
		if ctx.Err() != nil {
			l.log.Info().Int("ticks", ticks-1).Msg("loop cancelled")
			return nil
		}
		l.applyUpdates()

		out, err := l.Tick(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.log.Info().Int("ticks", ticks).Msg("loop cancelled")
				return nil
			}
			return err
		}
		if out.Decision.Action == models.ActionStop {
			ev := l.log.Info().Int("ticks", ticks).Str("reason", out.Decision.Reason)
			if out.Decision.Info != nil {
				ev = ev.Int("level", out.Decision.Info.Level).Str("item", out.Decision.Info.ItemName)
			}
			ev.Msg("stop condition reached")
			return nil
		}

		if err := pace.Wait(ctx, l.tick); err != nil {
			l.log.Info().Int("ticks", ticks).Msg("loop cancelled")
			return nil
		}
	}
}

// Tick performs one observe-decide-act cycle on the active region.
func (l *Loop) Tick(ctx context.Context) (Outcome, error) {
	region := l.rotator.Active()
	out := Outcome{Region: l.rotator.State().ActiveIndex}

	var obs models.Observation
	attempt := 0
	err := retry.Do(
		func() error {
			attempt++
			o, err := l.observe(ctx, region, attempt == 1)
			if err != nil {
				return err
			}
			a := l.gate.Assess(o)
			l.log.Debug().
				Int("region", out.Region).
				Int("attempt", attempt).
				Float64("conf", o.Confidence).
				Str("result", a.Result.String()).
				Str("verdict", a.Verdict.String()).
				Str("text", ocr.Snippet(o.Text, 80)).
				Msg("observation")
			if !a.Trusted() {
				return fmt.Errorf("%w: %s (conf %.1f)", ErrAmbiguous, a.Verdict, o.Confidence)
			}
			obs = o
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(error) bool { return ctx.Err() == nil }),
		retry.OnRetry(func(n uint, err error) {
			l.log.Debug().Uint("attempt", n+1).Err(err).Msg("re-capturing without settle")
		}),
	)
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	if err != nil {
		out.Abandoned = true
		return out, l.abandon(ctx, out.Region, err)
	}

	l.rotator.OnTrustedReading()
	d := l.policy.Decide(obs)
	out.Decision = d

	ev := l.log.Info().
		Int("region", out.Region).
		Float64("conf", obs.Confidence).
		Str("result", d.Result.String()).
		Str("action", d.Action.String()).
		Str("reason", d.Reason)
	if d.Info != nil {
		ev = ev.Int("level", d.Info.Level).Str("item", d.Info.ItemName)
	}
	ev.Msg("tick")

	switch d.Action {
	case models.ActionReinforce:
		l.say(ctx, l.commands.Reinforce)
	case models.ActionSell:
		l.say(ctx, l.commands.Sell)
	}
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, nil
}

func (l *Loop) observe(ctx context.Context, region models.Region, settle bool) (models.Observation, error) {
	img, err := l.capture.Capture(ctx, region, settle)
	if err != nil {
		return models.Observation{}, err
	}
	return l.reader.Read(img)
}

// abandon records the failed tick and recalibrates when the rotator asks for it.
func (l *Loop) abandon(ctx context.Context, index int, cause error) error {
	rotated := l.rotator.OnAmbiguousFailure()
	st := l.rotator.State()
	l.log.Warn().
		Int("region", index).
		Int("failures", st.Failures).
		Err(cause).
		Msg("tick abandoned")
	if !rotated {
		return nil
	}
	if l.rotator.Len() > 1 {
		l.log.Info().Int("from", index).Int("to", st.ActiveIndex).Msg("rotating capture region")
	}
	if l.rotator.NeedsRecalibration() {
		return l.recalibrate(ctx)
	}
	return nil
}

func (l *Loop) recalibrate(ctx context.Context) error {
	if l.selector == nil {
		l.log.Warn().Msg("every region keeps failing and no selector is available, continuing")
		l.rotator.OnTrustedReading()
		return nil
	}
	l.log.Warn().Msg("every region keeps failing, recalibrating")
	regions, err := l.selector.Select(ctx)
	if err != nil {
		return fmt.Errorf("recalibrate: %w", err)
	}
	if err := l.rotator.Recalibrate(regions); err != nil {
		return fmt.Errorf("recalibrate: %w", err)
	}
	l.log.Info().Int("regions", len(regions)).Msg("regions recalibrated")
	return nil
}

func (l *Loop) say(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	if err := l.chat.Say(ctx, msg); err != nil && ctx.Err() == nil {
		l.log.Warn().Err(err).Str("msg", msg).Msg("send failed")
	}
}

func (l *Loop) applyUpdates() {
	if l.updates == nil {
		return
	}
	select {
	case u := <-l.updates:
		l.policy = reinforce.NewPolicy(l.policy.Mode, u.Targets, u.Items)
		l.log.Info().
			Int("target_farm", u.Targets.Farm).
			Int("target_challenge", u.Targets.Challenge).
			Msg("policy updated")
	default:
	}
}
