//go:build !android

package game

import (
	"skyfx/internal/config"
	"skyfx/internal/cursor"
	"skyfx/internal/sfx"
	"skyfx/internal/theme"
)

type EventType int

const (
	EventSplatter EventType = iota
	EventThemeToggled
	EventConfigReloaded
)

// Event carries one host notification. Only the field matching Type is set.
type Event struct {
	Type   EventType
	Splat  cursor.Splat  // EventSplatter
	Theme  theme.Theme   // EventThemeToggled
	Config config.Config // EventConfigReloaded
}

type EventHandler func(Event)

// EventBus fans host events out to the subsystems that react to them.
// Emit runs handlers synchronously on the caller's goroutine.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}

// wireAudio makes audio react to host events. A nil audio system is silent.
func wireAudio(bus *EventBus, audio *AudioSystem) {
	bus.Subscribe(EventSplatter, func(e Event) {
		audio.Splat(sfx.Impact{Size: e.Splat.Size, Speed: e.Splat.Speed})
	})
	bus.Subscribe(EventThemeToggled, func(e Event) {
		if e.Theme == theme.Dark {
			audio.Play(sfx.ChimeDark)
			return
		}
		audio.Play(sfx.ChimeLight)
	})
	bus.Subscribe(EventConfigReloaded, func(e Event) {
		audio.SetVolume(e.Config.Audio.Volume)
	})
}
