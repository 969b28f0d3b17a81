// Package viz renders field slices in the terminal.
//
//   - [Canvas]: braille dot canvas, 2x4 dots per cell
//   - [Quiver]: arrows for the in-plane components of a [grid.Slice]
//   - [Animation]: Bubble Tea model looping the frames of one period
//   - [Browser]: preset menu that launches an [Animation]
//   - [EncodeGIF]: the same frames as a GIF
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Back to the first frame
//	[ ]   - Step one frame
//	T     - Cycle themes
//	G     - Save the period as a GIF
//	?     - Show help
package viz
