// Package viz is the Bubble Tea frontend of the fireworks show.
//
// The package renders the simulator's grid as lipgloss-styled runs next to a
// stats panel:
//
//   - [Model]: the live show with particle and smoke history charts
//   - [Picker]: preset selection before a show starts
//   - [Painter]: grid to styled text conversion
//
// # Key Bindings
//
//	Space - Pause/Resume
//	F     - Launch a firework
//	R     - Redraw
//	T     - Cycle panel themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
//
// # Recording
//
// Recordings started with G are written as animated GIFs to the path given
// to [Model.RecordTo] when recording stops or the show quits.
package viz
