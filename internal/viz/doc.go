// Package viz provides the terminal front end for the random walk projects.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: home menu listing the registered projects
//   - [ProjectView]: controls, braille canvas, MSD chart and docs for one
//     project
//   - Theme selection with built-in color schemes
//
// # Key Bindings
//
//	Space - Start/Pause playback
//	S     - Single step
//	R     - Reset with the current parameters
//	←/→   - Sample size -1/+1 (shift for ±10)
//	↓/↑   - Max steps ±10
//	D     - Toggle the docs pane
//	T     - Cycle color themes
//	W     - Save a run report
//	Esc   - Back to the menu
//
// Each frame tick drains the playback frame queue once, so a playing
// simulation advances at most one step per refresh.
package viz
