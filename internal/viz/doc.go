// Package viz animates a spring in the terminal with Bubble Tea.
//
// The live [Model] owns a spring and acts as its scheduler: the spring
// registers on Start and the model's frame ticker calls Tick until it
// rests. Rendering uses a braille [Canvas], lipgloss styles and an
// asciigraph position plot.
//
// # Key Bindings
//
//	Space - Start or pause
//	S     - Stop (zero velocity)
//	C     - Complete (snap to target)
//	Enter - Swap target between the endpoints
//	R     - Reset to the initial endpoints
//	Tab   - Select parameter, Up/Down to tune by 5%
//	T     - Cycle color themes
package viz
