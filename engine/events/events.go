// Package events implements single-pass event handler dispatch.
// Event handlers produce additional effects but do not recurse.
package events

import (
	"github.com/meekantifun/naval-command-sub002/types"
)

// Reaction is the effects one handler produced for one event. Ship is the
// ship the event was about, used as the default target of the effects.
type Reaction struct {
	EventType string
	Ship      string
	Effects   []types.Effect
}

// Dispatch runs event handlers against the emitted events. Single pass,
// no recursion. Handlers fire in definition order for each event in
// emission order.
func Dispatch(events []types.Event, handlers []types.EventHandler) []Reaction {
	var result []Reaction

	for _, event := range events {
		ship, _ := event.Data["ship"].(string)
		for _, handler := range handlers {
			if handler.EventType != event.Type {
				continue
			}
			if handler.Ship != "" && handler.Ship != ship {
				continue
			}
			result = append(result, Reaction{
				EventType: event.Type,
				Ship:      ship,
				Effects:   handler.Effects,
			})
		}
	}

	return result
}
