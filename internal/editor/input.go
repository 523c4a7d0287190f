package editor

import (
	"fmt"
	"strings"

	"github.com/ironsheep/mask-studio-mcp/internal/geom"
)

// Tool is the active editing tool. It changes only through SelectTool.
type Tool int

const (
	// Select drags out selection rectangles.
	Select Tool = iota
	// Brush paints semi-transparent strokes on the surface.
	Brush
	// Eraser clears painted pixels under its path.
	Eraser
	// Pan leaves the mask untouched; the host moves the view.
	Pan
)

var toolNames = map[Tool]string{
	Select: "select",
	Brush:  "brush",
	Eraser: "eraser",
	Pan:    "pan",
}

// String returns the wire name of the tool.
func (t Tool) String() string {
	if s, ok := toolNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool converts a wire name into a Tool.
func ParseTool(s string) (Tool, error) {
	for t, name := range toolNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return Select, fmt.Errorf("unknown tool: %s", s)
}

// Variant selects which host the editor is embedded in. The two variants
// share every rule except Space handling.
type Variant int

const (
	// Full is the full-page editor: Shift adds, Alt subtracts.
	Full Variant = iota
	// Modal is the detail-view editor: like Full, and a held Space pans.
	Modal
)

// String returns the wire name of the variant.
func (v Variant) String() string {
	switch v {
	case Full:
		return "full"
	case Modal:
		return "modal"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant converts a wire name into a Variant. Empty means Full.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "", "full":
		return Full, nil
	case "modal":
		return Modal, nil
	}
	return Full, fmt.Errorf("unknown editor variant: %s", s)
}

// Key names a modifier key the editor tracks.
type Key string

const (
	// KeyShift switches selection commits to additive.
	KeyShift Key = "Shift"
	// KeyAlt switches selection commits to subtractive.
	KeyAlt Key = "Alt"
	// KeySpace pans while held, in the Modal variant only.
	KeySpace Key = "Space"
)

// Modifiers is the set of modifier keys currently held.
type Modifiers uint8

// Modifier bits, one per tracked Key.
const (
	ModShift Modifiers = 1 << iota // Shift is held
	ModAlt                         // Alt is held
	ModSpace                       // Space is held
)

// Has reports whether every modifier in m is held.
func (mods Modifiers) Has(m Modifiers) bool { return mods&m == m }

// Names lists the held modifiers in a stable order.
func (mods Modifiers) Names() []string {
	names := []string{}
	if mods.Has(ModShift) {
		names = append(names, string(KeyShift))
	}
	if mods.Has(ModAlt) {
		names = append(names, string(KeyAlt))
	}
	if mods.Has(ModSpace) {
		names = append(names, string(KeySpace))
	}
	return names
}

// Kind is the phase of a pointer event.
type Kind int

const (
	// Press starts a gesture.
	Press Kind = iota
	// Drag moves an active gesture.
	Drag
	// Release ends a gesture and commits it.
	Release
	// Cancel abandons a gesture without committing.
	Cancel
)

// String returns the editor's name for the event kind.
func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Drag:
		return "drag"
	case Release:
		return "release"
	case Cancel:
		return "cancel"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts both the editor's names and the DOM-style down/move/up.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "press", "down":
		return Press, nil
	case "drag", "move":
		return Drag, nil
	case "release", "up":
		return Release, nil
	case "cancel", "leave":
		return Cancel, nil
	}
	return Press, fmt.Errorf("unknown pointer event: %s", s)
}

// PointerEvent is one pointer sample from the host, with the layout that
// was current when it fired.
type PointerEvent struct {
	Kind     Kind
	ClientX  float64
	ClientY  float64
	Viewport geom.Viewport
}
