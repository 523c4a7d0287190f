package editor

import (
	"image/color"

	"github.com/ironsheep/mask-studio-mcp/internal/geom"
	"github.com/ironsheep/mask-studio-mcp/internal/paint"
	"github.com/ironsheep/mask-studio-mcp/internal/selection"
	"github.com/ironsheep/mask-studio-mcp/internal/zone"
)

// DefaultBrushSize is the brush width, in display pixels, used when none is
// configured.
const DefaultBrushSize = 30

// BrushSettings holds the host's brush choices. Size is in display pixels
// and is converted to native pixels on every stroke.
type BrushSettings struct {
	Size  float64
	Color color.Color
}

// Options configures a new Controller.
type Options struct {
	Variant    Variant
	Brush      BrushSettings
	ScanStride int
}

// gesture is the in-progress pointer interaction. Exactly one is active.
type gesture interface{ name() string }

type idle struct{}

type dragging struct{ drag selection.Drag }

type stroking struct {
	tool paint.Tool
	last geom.Point
}

func (idle) name() string      { return "idle" }
func (*dragging) name() string { return "dragging" }
func (*stroking) name() string { return "stroking" }

// Controller routes host input to the selection set and paint surface of
// one editor. The full-page and modal editors each own a Controller; they
// never share one.
//
// Controller is not safe for concurrent use.
type Controller struct {
	variant Variant
	tool    Tool
	mods    Modifiers
	state   gesture

	sel     selection.Set
	surface *paint.Surface
	brush   BrushSettings
	stride  int

	cursor    geom.Point
	hasCursor bool
}

// New returns a Controller for a source image of the given native size.
func New(width, height int, opts Options) *Controller {
	if opts.Brush.Size <= 0 {
		opts.Brush.Size = DefaultBrushSize
	}
	if opts.Brush.Color == nil {
		opts.Brush.Color = color.RGBA{R: 255, A: 255}
	}
	if opts.ScanStride <= 0 {
		opts.ScanStride = paint.DefaultScanStride
	}
	return &Controller{
		variant: opts.Variant,
		tool:    Select,
		state:   idle{},
		surface: paint.NewSurface(width, height),
		brush:   opts.Brush,
		stride:  opts.ScanStride,
	}
}

// Variant returns the host variant the controller was created for.
func (c *Controller) Variant() Variant { return c.variant }

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.tool }

// Modifiers returns the held modifier keys.
func (c *Controller) Modifiers() Modifiers { return c.mods }

// Size returns the native size of the source image.
func (c *Controller) Size() (int, int) { return c.surface.Width(), c.surface.Height() }

// SelectTool switches tools and abandons any gesture in progress.
func (c *Controller) SelectTool(t Tool) {
	c.tool = t
	c.state = idle{}
}

// SetBrush updates the brush used by later strokes. A size <= 0 keeps the
// current size and a nil colour keeps the current colour.
func (c *Controller) SetBrush(size float64, col color.Color) {
	if size > 0 {
		c.brush.Size = size
	}
	if col != nil {
		c.brush.Color = col
	}
}

// Brush returns the current brush settings.
func (c *Controller) Brush() BrushSettings { return c.brush }

// KeyDown records a modifier press. Auto-repeat presses and presses of a
// key already held are ignored. It reports whether the modifier state
// changed.
func (c *Controller) KeyDown(k Key, repeat bool) bool {
	m, ok := c.modifierFor(k)
	if !ok || repeat || c.mods.Has(m) {
		return false
	}
	c.mods |= m
	return true
}

// KeyUp records a modifier release and reports whether the state changed.
func (c *Controller) KeyUp(k Key) bool {
	m, ok := c.modifierFor(k)
	if !ok || !c.mods.Has(m) {
		return false
	}
	c.mods &^= m
	return true
}

func (c *Controller) modifierFor(k Key) (Modifiers, bool) {
	switch k {
	case KeyShift:
		return ModShift, true
	case KeyAlt:
		return ModAlt, true
	case KeySpace:
		return ModSpace, c.variant == Modal
	}
	return 0, false
}

// mode derives the selection mode from held modifiers. Alt wins over Shift.
func (c *Controller) mode() selection.Mode {
	switch {
	case c.mods.Has(ModAlt):
		return selection.Subtractive
	case c.mods.Has(ModShift):
		return selection.Additive
	default:
		return selection.Replace
	}
}

func (c *Controller) panning() bool {
	return c.tool == Pan || (c.variant == Modal && c.mods.Has(ModSpace))
}

// Pointer handles one pointer event. It reports whether the mask changed:
// a rectangle was committed or paint was applied.
func (c *Controller) Pointer(ev PointerEvent) bool {
	c.cursor = geom.Visual(ev.ClientX, ev.ClientY, ev.Viewport)
	c.hasCursor = true

	switch ev.Kind {
	case Press:
		return c.press(ev)
	case Drag:
		return c.drag(ev)
	case Release:
		return c.release(ev)
	default:
		c.state = idle{}
		return false
	}
}

func (c *Controller) native(ev PointerEvent) geom.Point {
	w, h := c.Size()
	return geom.Native(ev.ClientX, ev.ClientY, ev.Viewport, w, h)
}

func (c *Controller) brushWidth(ev PointerEvent) float64 {
	w, h := c.Size()
	return geom.BrushToNative(c.brush.Size, ev.Viewport, w, h)
}

func (c *Controller) press(ev PointerEvent) bool {
	// A new press always abandons whatever was in progress.
	c.state = idle{}
	if c.panning() {
		return false
	}

	p := c.native(ev)
	switch c.tool {
	case Select:
		d := &dragging{}
		d.drag.Begin(p)
		c.state = d
		return false
	case Brush, Eraser:
		st := &stroking{tool: paintTool(c.tool), last: p}
		c.surface.StrokeTo(p, p, st.tool, c.brushWidth(ev), c.brush.Color)
		c.state = st
		return true
	}
	return false
}

func (c *Controller) drag(ev PointerEvent) bool {
	switch st := c.state.(type) {
	case *dragging:
		st.drag.Update(c.native(ev))
	case *stroking:
		p := c.native(ev)
		c.surface.StrokeTo(st.last, p, st.tool, c.brushWidth(ev), c.brush.Color)
		st.last = p
		return true
	}
	return false
}

func (c *Controller) release(ev PointerEvent) bool {
	st := c.state
	c.state = idle{}

	d, ok := st.(*dragging)
	if !ok {
		return false
	}
	d.drag.Update(c.native(ev))
	r, _ := d.drag.End()
	return c.sel.Commit(r, c.mode())
}

func paintTool(t Tool) paint.Tool {
	if t == Eraser {
		return paint.Eraser
	}
	return paint.Brush
}

// Selection returns the committed selection rectangles in native pixels.
func (c *Controller) Selection() []geom.Rect { return c.sel.Rects() }

// Provisional returns the rectangle of a drag in progress.
func (c *Controller) Provisional() (geom.Rect, bool) {
	d, ok := c.state.(*dragging)
	if !ok {
		return geom.Rect{}, false
	}
	return d.drag.Rect()
}

// Cursor returns the last pointer position in visual space.
func (c *Controller) Cursor() (geom.Point, bool) { return c.cursor, c.hasCursor }

// Surface returns the paint layer for rendering.
func (c *Controller) Surface() *paint.Surface { return c.surface }

// Seed commits externally detected rectangles, such as text boxes, as if
// each had been dragged with mode. It returns how many were kept.
func (c *Controller) Seed(rects []geom.Rect, mode selection.Mode) int {
	c.state = idle{}
	return c.sel.Seed(rects, mode)
}

// ClearSelection removes every selection rectangle.
func (c *Controller) ClearSelection() {
	c.sel.Clear()
	if _, ok := c.state.(*dragging); ok {
		c.state = idle{}
	}
}

// ClearMask erases the paint layer.
func (c *Controller) ClearMask() {
	c.surface.Clear()
	if _, ok := c.state.(*stroking); ok {
		c.state = idle{}
	}
}

// ClearAll clears both the selection and the paint layer.
func (c *Controller) ClearAll() {
	c.ClearSelection()
	c.ClearMask()
}

// Reset prepares the controller for a new source image: selection and
// paint are cleared, the tool returns to Select and modifiers are dropped.
func (c *Controller) Reset(width, height int) {
	c.sel.Clear()
	c.surface.Reset(width, height)
	c.tool = Select
	c.mods = 0
	c.state = idle{}
	c.cursor, c.hasCursor = geom.Point{}, false
}

// Zones resolves the current selection and paint into edit zones.
func (c *Controller) Zones() ([]zone.Zone, error) {
	w, h := c.Size()
	return zone.Resolve(c.sel.Rects(), c.surface, c.stride, w, h)
}

// Submit resolves edit zones and annotates prompt with them. It fails with
// zone.ErrNoRegion when nothing is selected or painted.
func (c *Controller) Submit(prompt string) (*zone.Request, error) {
	zones, err := c.Zones()
	if err != nil {
		return nil, err
	}
	return zone.NewRequest(prompt, zones), nil
}

// State is a read-only snapshot of the controller for hosts.
type State struct {
	Variant     string      `json:"variant"`
	Tool        string      `json:"tool"`
	Modifiers   []string    `json:"modifiers"`
	Gesture     string      `json:"gesture"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Selection   []geom.Rect `json:"selection"`
	Provisional *geom.Rect  `json:"provisional,omitempty"`
	Cursor      *geom.Point `json:"cursor,omitempty"`
	BrushSize   float64     `json:"brush_size"`
}

// Snapshot returns the controller's current state.
func (c *Controller) Snapshot() State {
	w, h := c.Size()
	s := State{
		Variant:   c.variant.String(),
		Tool:      c.tool.String(),
		Modifiers: c.mods.Names(),
		Gesture:   c.state.name(),
		Width:     w,
		Height:    h,
		Selection: c.sel.Rects(),
		BrushSize: c.brush.Size,
	}
	if r, ok := c.Provisional(); ok {
		s.Provisional = &r
	}
	if p, ok := c.Cursor(); ok {
		s.Cursor = &p
	}
	return s
}
