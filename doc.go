// Package birch is a canvas-style 2D game framework for [Ebitengine].
//
// A [Game] drives a frame pipeline over a main [Scene] and any scenes layered
// above it. Scenes own flat lists of entities (rectangles, circles, images,
// sprites and text), a physics world, a camera, timers and audio. Every frame
// the game polls input, dispatches pointer events and hooks, integrates
// velocities, records draw commands and submits them to the screen.
//
// # Quick start
//
// Build the scenes, hand them to [NewGame] and open a window with [Run]:
//
//	level := birch.NewScene("level")
//	ball := level.NewCircle(320, 240, 12)
//	ball.VelocityX, ball.VelocityY = 180, 140
//	ball.Bounce = true
//	level.World().Activation(true)
//
//	g, err := birch.NewGame(birch.Config{
//		Width:  birch.Px(640),
//		Height: birch.Px(480),
//		Scenes: birch.NewSceneManager(level),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(birch.Run(g, birch.RunConfig{Title: "My Game"}))
//
// # Entities
//
// An [Entity] is positioned by its center; OriginX and OriginY move the
// anchor in half-size units, so -1,-1 anchors the top-left corner. Entities
// belong to exactly one [BoundingBox], which bounces them and resolves
// percentage dimensions. Hooks (OnInit, OnBeforeRedraw, OnRedraw,
// OnAfterRedraw, OnDraw, OnDestroy) are nil by default.
//
// # Scenes
//
// Exactly one scene is the main scene. [Game.ChangeScene] consults the
// ChangeAllow guards of both scenes; [Game.PlayWithOpacity] layers a scene
// above the main one with its own alpha. Entities of layered scenes are
// drawn even when hidden.
//
// # Assets
//
// Config.Load names loaders run off the frame goroutine. Results are cached
// in the [AssetRegistry] on the next frame and reported with [EventLoaded],
// [EventLoadError] or [EventAudioError] on [Game.Globals].
//
// [Ebitengine]: https://ebitengine.org
package birch
