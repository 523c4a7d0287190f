// Package editor is the mask editor's input controller.
//
// A Controller owns one selection set and one paint surface and turns host
// input into changes on them. Hosts report pointer samples in client
// coordinates together with the current layout; the controller maps them
// into native image pixels before anything is stored, so pan and zoom never
// affect the committed mask.
//
// # Tools and Modifiers
//
// The active tool changes only through SelectTool, which also abandons any
// gesture in progress. Selection mode is derived from held modifiers when a
// drag is released:
//
//	Alt         subtractive (wins over Shift)
//	Shift       additive
//	neither     replace
//
// The Modal variant additionally treats a held Space as a temporary pan
// tool. Key auto-repeat is ignored.
//
// # Gestures
//
// Exactly one gesture is active at a time: idle, dragging a selection
// rectangle, or stroking with the brush or eraser. A new press always
// starts from idle.
package editor
