// Package playback drives a walk.Simulation at the host's refresh cadence.
//
// The [Controller] is a two-state machine (Stopped, Playing). While playing
// it asks a [Scheduler] for the next frame, runs exactly one Step when the
// frame fires, and re-arms itself. Pausing, resetting, reaching the step
// limit, or closing the controller cancels the pending frame; a frame that
// fires anyway is ignored.
//
// Hosts own the refresh loop. The terminal UI drains a [FrameQueue] on every
// bubbletea tick, the desktop viewer drains it once per raylib frame, and
// headless callers use [RunToCompletion].
//
// Controllers are single-goroutine objects, like the engines they drive.
package playback
