// Package control turns user input into actions for the simulation loop.
//
// A [Source] is polled once per tick and returns the actions that arrived
// since the last poll:
//
//   - [Quit]: stop at the next tick boundary
//   - [TogglePause]: freeze or resume the simulation
//   - [ToggleHelp]: show or hide the key overlay
//   - [Spawn]: launch a firework now
//   - [Redraw]: force a full repaint (terminal resize)
//
// Key names are shared by every frontend through [Bindings], so the tcell
// screen and the bubbletea model react to the same keys.
//
// # Usage
//
//	src := control.NewScripted(map[int][]control.Action{
//	    10: {control.Spawn},
//	    60: {control.Quit},
//	})
//	actions := src.Poll() // called once per tick
package control
