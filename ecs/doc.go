// Package ecs bridges canopy drawables into a [Donburi] world.
//
// Entities carrying a [SpriteComponent] own a canopy Sprite whose position
// follows the entity. [Step] runs one frame: velocities are integrated,
// sprites are synced, the screen is updated and a [FrameEvent] is delivered
// to subscribers of [FrameEventType].
//
// Usage:
//
//	world := donburi.NewWorld()
//	ecs.NewSpriteEntity(world, canopy.NewSprite(engine, nil), 10, 20)
//	ecs.FrameEventType.Subscribe(world, onFrame)
//	for {
//		ecs.Step(world, engine.Screen())
//	}
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
