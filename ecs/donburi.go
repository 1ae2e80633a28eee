package ecs

import (
	"math"

	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SpriteData ties an entity to a canopy sprite. X and Y are the entity
// position in screen pixels; VX and VY are added to it once per Step.
type SpriteData struct {
	Sprite *canopy.Sprite
	X, Y   float64
	VX, VY float64
}

// SpriteComponent is the Donburi component holding SpriteData.
var SpriteComponent = donburi.NewComponentType[SpriteData]()

// FrameEvent is published once per Step after the screen has been updated.
type FrameEvent struct {
	// Frame is the screen frame count after the update.
	Frame int
	// Sprites is the number of sprite entities synced this frame.
	Sprites int
}

// FrameEventType is the Donburi event type for FrameEvent.
var FrameEventType = events.NewEventType[FrameEvent]()

// NewSpriteEntity creates an entity owning s, placed at (x, y).
func NewSpriteEntity(w donburi.World, s *canopy.Sprite, x, y float64) donburi.Entity {
	ent := w.Create(SpriteComponent)
	SpriteComponent.SetValue(w.Entry(ent), SpriteData{Sprite: s, X: x, Y: y})
	s.SetX(int(math.Round(x)))
	s.SetY(int(math.Round(y)))
	return ent
}

// RemoveSpriteEntity disposes the entity's sprite and removes the entity.
// Invalid entities are ignored.
func RemoveSpriteEntity(w donburi.World, ent donburi.Entity) {
	if !w.Valid(ent) {
		return
	}
	entry := w.Entry(ent)
	if entry.HasComponent(SpriteComponent) {
		if d := SpriteComponent.Get(entry); d.Sprite != nil {
			d.Sprite.Dispose()
		}
	}
	w.Remove(ent)
}

// Sync integrates velocities and copies entity positions onto their
// sprites. Entities whose sprite was disposed elsewhere are removed. It
// returns the number of sprites synced.
func Sync(w donburi.World) int {
	var n int
	var dead []donburi.Entity
	SpriteComponent.Each(w, func(entry *donburi.Entry) {
		d := SpriteComponent.Get(entry)
		if d.Sprite == nil || d.Sprite.IsDisposed() {
			dead = append(dead, entry.Entity())
			return
		}
		d.X += d.VX
		d.Y += d.VY
		d.Sprite.SetX(int(math.Round(d.X)))
		d.Sprite.SetY(int(math.Round(d.Y)))
		d.Sprite.Update()
		n++
	})
	for _, ent := range dead {
		w.Remove(ent)
	}
	return n
}

// Step runs one frame of w against screen and delivers the resulting
// FrameEvent along with any other queued FrameEvents.
func Step(w donburi.World, screen *canopy.Screen) {
	n := Sync(w)
	screen.Update()
	FrameEventType.Publish(w, FrameEvent{Frame: screen.FrameCount(), Sprites: n})
	FrameEventType.ProcessEvents(w)
}
