package activity

import "context"

// Config controls whether audit emission is active and which channel emitted
// events are tagged with when they do not name one.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter delivers audit events to the configured hooks. An emitter with no
// hooks is permanently disabled regardless of configuration.
type Emitter struct {
	hooks   Hooks
	channel string
	enabled bool
}

// NewEmitter builds an emitter over the given hooks.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	live := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			live = append(live, hook)
		}
	}
	return &Emitter{hooks: live, channel: cfg.Channel, enabled: cfg.Enabled && len(live) > 0}
}

// Enabled reports whether Emit will deliver anything.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit delivers the event when the emitter is enabled; otherwise it is a
// no-op.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if !e.Enabled() {
		return nil
	}
	if evt.Channel == "" {
		evt.Channel = e.channel
	}
	return e.hooks.Notify(ctx, evt)
}
