// Package viz draws a particle world in the terminal.
//
// The live view is a Bubble Tea program around a [sim.World]. Particles are
// painted in their own colour on a braille [Canvas]; the side panel shows a
// population chart, memory use against the budget and the running totals.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Single step while paused
//	R     - Remove every particle
//	K     - Cycle the spawn kind (any, red, blue, green, yellow, pink)
//	V     - Switch between the spawn and velocity tools
//	O     - Toggle generate-once
//	A     - Toggle auto add
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Mouse
//
// With the spawn tool, holding the left button spawns at the pointer every
// tick, or once per click in generate-once mode. With the velocity tool,
// press on a particle, drag, and release to fling it away from the pointer.
package viz
