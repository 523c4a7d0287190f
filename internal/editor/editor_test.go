package editor

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/ironsheep/mask-studio-mcp/internal/geom"
	"github.com/ironsheep/mask-studio-mcp/internal/selection"
	"github.com/ironsheep/mask-studio-mcp/internal/zone"
)

// halfScale lays a 1000x800 image out at 500x400 with the container at
// (100, 50), so native = (client - origin) * 2.
var halfScale = geom.Viewport{OriginX: 100, OriginY: 50, Zoom: 1, DisplayW: 500, DisplayH: 400}

func newTestController(v Variant) *Controller {
	return New(1000, 800, Options{Variant: v, Brush: BrushSettings{Size: 10, Color: color.RGBA{255, 0, 0, 255}}})
}

func ev(kind Kind, nativeX, nativeY float64) PointerEvent {
	return PointerEvent{
		Kind:     kind,
		ClientX:  halfScale.OriginX + nativeX/2,
		ClientY:  halfScale.OriginY + nativeY/2,
		Viewport: halfScale,
	}
}

// dragRect runs a full press/drag/release at native coordinates.
func dragRect(c *Controller, x1, y1, x2, y2 float64) bool {
	c.Pointer(ev(Press, x1, y1))
	c.Pointer(ev(Drag, (x1+x2)/2, (y1+y2)/2))
	c.Pointer(ev(Drag, x2, y2))
	return c.Pointer(ev(Release, x2, y2))
}

func TestNew_Defaults(t *testing.T) {
	c := New(640, 480, Options{})
	if c.Tool() != Select {
		t.Errorf("initial tool: got %s, want select", c.Tool())
	}
	if w, h := c.Size(); w != 640 || h != 480 {
		t.Errorf("size: got %dx%d", w, h)
	}
	if c.Brush().Size != DefaultBrushSize || c.Brush().Color == nil {
		t.Errorf("brush defaults: got %+v", c.Brush())
	}
	if c.Snapshot().Gesture != "idle" {
		t.Errorf("initial gesture: got %s", c.Snapshot().Gesture)
	}
}

func TestSelect_DragCommitsNativeRect(t *testing.T) {
	c := newTestController(Full)

	if !dragRect(c, 100, 200, 300, 500) {
		t.Fatal("drag was not committed")
	}
	got := c.Selection()
	want := geom.Rect{X: 100, Y: 200, W: 200, H: 300}
	if len(got) != 1 || got[0] != want {
		t.Errorf("selection: got %+v, want [%+v]", got, want)
	}
}

func TestSelect_ProvisionalDuringDrag(t *testing.T) {
	c := newTestController(Full)
	c.Pointer(ev(Press, 300, 300))
	c.Pointer(ev(Drag, 100, 100))

	r, ok := c.Provisional()
	if !ok {
		t.Fatal("no provisional rect during drag")
	}
	if r != (geom.Rect{X: 100, Y: 100, W: 200, H: 200}) {
		t.Errorf("provisional: got %+v", r)
	}
	if len(c.Selection()) != 0 {
		t.Error("provisional rect leaked into selection")
	}
}

func TestSelect_NoiseDragIgnored(t *testing.T) {
	c := newTestController(Full)
	dragRect(c, 0, 0, 400, 400)

	if dragRect(c, 500, 500, 504, 700) {
		t.Error("sub-threshold drag reported a change")
	}
	if got := c.Selection(); len(got) != 1 {
		t.Errorf("sub-threshold replace drag changed the set: %+v", got)
	}
}

func TestSelect_ModifierModes(t *testing.T) {
	c := newTestController(Full)

	dragRect(c, 0, 0, 100, 100)
	dragRect(c, 200, 200, 300, 300)
	if n := len(c.Selection()); n != 1 {
		t.Fatalf("plain drag should replace: got %d rects", n)
	}

	c.KeyDown(KeyShift, false)
	dragRect(c, 500, 500, 600, 600)
	c.KeyUp(KeyShift)
	if n := len(c.Selection()); n != 2 {
		t.Fatalf("shift drag should add: got %d rects", n)
	}

	// Cut a band through the middle of the first rect.
	c.KeyDown(KeyAlt, false)
	dragRect(c, 150, 240, 350, 260)
	c.KeyUp(KeyAlt)

	got := c.Selection()
	if len(got) != 3 {
		t.Fatalf("alt drag should split: got %d rects %+v", len(got), got)
	}
	if got[0] != (geom.Rect{X: 200, Y: 200, W: 100, H: 40}) {
		t.Errorf("top strip: got %+v", got[0])
	}
	if got[1] != (geom.Rect{X: 200, Y: 260, W: 100, H: 40}) {
		t.Errorf("bottom strip: got %+v", got[1])
	}
}

func TestSelect_AltWinsOverShift(t *testing.T) {
	c := newTestController(Full)
	dragRect(c, 0, 0, 100, 100)

	c.KeyDown(KeyShift, false)
	c.KeyDown(KeyAlt, false)
	dragRect(c, -10, -10, 200, 200)

	if n := len(c.Selection()); n != 0 {
		t.Errorf("alt+shift should subtract: got %+v", c.Selection())
	}
}

func TestKeys_RepeatIgnored(t *testing.T) {
	c := newTestController(Full)

	if !c.KeyDown(KeyShift, false) {
		t.Fatal("first press should change state")
	}
	if c.KeyDown(KeyShift, true) {
		t.Error("repeat press changed state")
	}
	if c.KeyDown(KeyShift, false) {
		t.Error("press of held key changed state")
	}
	if !c.KeyUp(KeyShift) {
		t.Error("release should change state")
	}
	if c.KeyUp(KeyShift) {
		t.Error("second release changed state")
	}
	if c.KeyDown(KeyShift, true) {
		t.Error("repeat without a prior press should be ignored")
	}
	if c.Modifiers() != 0 {
		t.Errorf("modifiers: got %v", c.Modifiers().Names())
	}
}

func TestKeys_SpaceOnlyInModal(t *testing.T) {
	full := newTestController(Full)
	if full.KeyDown(KeySpace, false) {
		t.Error("full editor should ignore Space")
	}
	modal := newTestController(Modal)
	if !modal.KeyDown(KeySpace, false) {
		t.Error("modal editor should track Space")
	}
	if names := modal.Modifiers().Names(); len(names) != 1 || names[0] != "Space" {
		t.Errorf("modifier names: got %v", names)
	}
}

func TestModal_SpacePans(t *testing.T) {
	c := newTestController(Modal)
	c.KeyDown(KeySpace, false)

	if dragRect(c, 0, 0, 300, 300) {
		t.Error("drag while Space held changed the mask")
	}
	if len(c.Selection()) != 0 {
		t.Errorf("selection changed while panning: %+v", c.Selection())
	}

	c.SelectTool(Brush)
	c.Pointer(ev(Press, 500, 400))
	c.Pointer(ev(Release, 500, 400))
	if _, ok := c.Surface().OpaqueBounds(1); ok {
		t.Error("brush painted while Space held")
	}

	c.KeyUp(KeySpace)
	c.SelectTool(Select)
	if !dragRect(c, 0, 0, 300, 300) {
		t.Error("drag after releasing Space was not committed")
	}
}

func TestPan_IsNoOp(t *testing.T) {
	c := newTestController(Full)
	c.SelectTool(Pan)

	if dragRect(c, 0, 0, 300, 300) {
		t.Error("pan reported a mask change")
	}
	if len(c.Selection()) != 0 {
		t.Error("pan committed a selection")
	}
	if _, ok := c.Surface().OpaqueBounds(1); ok {
		t.Error("pan painted")
	}
	if _, ok := c.Cursor(); !ok {
		t.Error("cursor should still track while panning")
	}
}

func TestSelectTool_AbandonsDrag(t *testing.T) {
	c := newTestController(Full)
	c.Pointer(ev(Press, 0, 0))
	c.Pointer(ev(Drag, 300, 300))

	c.SelectTool(Brush)
	if _, ok := c.Provisional(); ok {
		t.Error("tool switch kept the provisional rect")
	}
	c.SelectTool(Select)
	if c.Pointer(ev(Release, 300, 300)) {
		t.Error("release after tool switch committed")
	}
	if len(c.Selection()) != 0 {
		t.Error("abandoned drag was committed")
	}
}

func TestPress_RestartsDrag(t *testing.T) {
	c := newTestController(Full)
	c.Pointer(ev(Press, 0, 0))
	c.Pointer(ev(Drag, 300, 300))

	c.Pointer(ev(Press, 500, 500))
	c.Pointer(ev(Release, 600, 600))

	got := c.Selection()
	if len(got) != 1 || got[0] != (geom.Rect{X: 500, Y: 500, W: 100, H: 100}) {
		t.Errorf("selection: got %+v", got)
	}
}

func TestCancel_DropsDrag(t *testing.T) {
	c := newTestController(Full)
	c.Pointer(ev(Press, 0, 0))
	c.Pointer(ev(Drag, 300, 300))
	c.Pointer(ev(Cancel, 300, 300))

	if c.Pointer(ev(Release, 300, 300)) || len(c.Selection()) != 0 {
		t.Error("cancelled drag was committed")
	}
}

func TestBrush_StrokePaintsContinuousLine(t *testing.T) {
	c := newTestController(Full)
	c.SelectTool(Brush)

	c.Pointer(ev(Press, 100, 400))
	for x := 150.0; x <= 900; x += 150 {
		c.Pointer(ev(Drag, x, 400))
	}
	c.Pointer(ev(Release, 900, 400))

	s := c.Surface()
	for x := 100; x <= 900; x += 25 {
		if s.AlphaAt(x, 400) == 0 {
			t.Fatalf("gap in stroke at x=%d", x)
		}
	}
	// brush 10 display px = 20 native px
	if s.AlphaAt(500, 412) != 0 || s.AlphaAt(500, 408) == 0 {
		t.Error("stroke width not scaled to native pixels")
	}
}

func TestEraser_RemovesPaint(t *testing.T) {
	c := newTestController(Full)
	c.SelectTool(Brush)
	c.Pointer(ev(Press, 200, 400))
	c.Pointer(ev(Drag, 800, 400))
	c.Pointer(ev(Release, 800, 400))

	c.SelectTool(Eraser)
	c.Pointer(ev(Press, 200, 400))
	c.Pointer(ev(Drag, 800, 400))
	c.Pointer(ev(Release, 800, 400))

	if r, ok := c.Surface().OpaqueBounds(1); ok {
		t.Errorf("erased stroke still detected at %+v", r)
	}
	if _, err := c.Zones(); !errors.Is(err, zone.ErrNoRegion) {
		t.Errorf("Zones after erase: got %v, want ErrNoRegion", err)
	}
}

func TestBrush_MissingLayoutIsHarmless(t *testing.T) {
	c := newTestController(Full)
	c.SelectTool(Brush)
	noLayout := PointerEvent{Kind: Press, ClientX: 50, ClientY: 50, Viewport: geom.Viewport{Zoom: 1}}

	c.Pointer(noLayout)
	noLayout.Kind = Release
	c.Pointer(noLayout)

	if _, ok := c.Surface().OpaqueBounds(1); ok {
		t.Error("stroke without layout painted pixels")
	}
}

func TestZones_SelectionAndPaint(t *testing.T) {
	c := newTestController(Full)
	dragRect(c, 0, 0, 500, 400)

	c.SelectTool(Brush)
	c.Pointer(ev(Press, 800, 600))
	c.Pointer(ev(Release, 800, 600))

	zones, err := c.Zones()
	if err != nil {
		t.Fatalf("Zones: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(zones))
	}
	if zones[0] != (zone.Zone{Y1: 0, X1: 0, Y2: 500, X2: 500}) {
		t.Errorf("selection zone: got %+v", zones[0])
	}
	p := zones[1]
	if p.X1 > 800 || p.X2 < 800 || p.Y1 > 750 || p.Y2 < 750 {
		t.Errorf("paint zone %+v does not cover the dot", p)
	}
}

func TestSubmit(t *testing.T) {
	c := newTestController(Full)

	if _, err := c.Submit("add a moon"); !errors.Is(err, zone.ErrNoRegion) {
		t.Fatalf("empty submit: got %v, want ErrNoRegion", err)
	}

	dragRect(c, 0, 0, 500, 400)
	req, err := c.Submit("add a moon")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !strings.HasPrefix(req.Prompt, "add a moon") || !strings.Contains(req.Prompt, "[EDIT_ZONE: 0, 0, 500, 500]") {
		t.Errorf("prompt: got %q", req.Prompt)
	}
}

func TestReset(t *testing.T) {
	c := newTestController(Modal)
	dragRect(c, 0, 0, 500, 400)
	c.SelectTool(Brush)
	c.Pointer(ev(Press, 800, 600))
	c.KeyDown(KeyShift, false)

	c.Reset(320, 240)

	if c.Tool() != Select || c.Modifiers() != 0 {
		t.Errorf("tool state not reset: %s %v", c.Tool(), c.Modifiers().Names())
	}
	if len(c.Selection()) != 0 {
		t.Error("selection survived reset")
	}
	if w, h := c.Size(); w != 320 || h != 240 {
		t.Errorf("size after reset: %dx%d", w, h)
	}
	if _, ok := c.Surface().OpaqueBounds(1); ok {
		t.Error("paint survived reset")
	}
	if _, ok := c.Cursor(); ok {
		t.Error("cursor survived reset")
	}
	if c.Variant() != Modal {
		t.Error("variant changed on reset")
	}
}

func TestClear(t *testing.T) {
	c := newTestController(Full)
	dragRect(c, 0, 0, 500, 400)
	c.SelectTool(Brush)
	c.Pointer(ev(Press, 800, 600))
	c.Pointer(ev(Release, 800, 600))

	c.ClearSelection()
	if len(c.Selection()) != 0 {
		t.Error("ClearSelection left rects")
	}
	if _, ok := c.Surface().OpaqueBounds(1); !ok {
		t.Error("ClearSelection removed paint")
	}

	c.SelectTool(Select)
	dragRect(c, 0, 0, 500, 400)
	c.ClearMask()
	if _, ok := c.Surface().OpaqueBounds(1); ok {
		t.Error("ClearMask left paint")
	}
	if len(c.Selection()) == 0 {
		t.Error("ClearMask removed selection")
	}
}

func TestClearAll(t *testing.T) {
	c := newTestController(Full)
	dragRect(c, 0, 0, 500, 400)
	c.SelectTool(Brush)
	c.Pointer(ev(Press, 800, 600))
	c.Pointer(ev(Release, 800, 600))

	c.ClearAll()
	if _, err := c.Zones(); !errors.Is(err, zone.ErrNoRegion) {
		t.Errorf("Zones after ClearAll: got %v", err)
	}
}

func TestSeed(t *testing.T) {
	c := newTestController(Full)
	dragRect(c, 0, 0, 500, 400)

	n := c.Seed([]geom.Rect{{X: 10, Y: 10, W: 50, H: 20}, {X: 0, Y: 0, W: 1, H: 1}}, selection.Additive)
	if n != 1 {
		t.Errorf("Seed kept %d, want 1", n)
	}
	if len(c.Selection()) != 2 {
		t.Errorf("selection: got %+v", c.Selection())
	}
}

func TestSetBrush(t *testing.T) {
	c := newTestController(Full)
	c.SetBrush(42, nil)
	if c.Brush().Size != 42 || c.Brush().Color == nil {
		t.Errorf("SetBrush size: got %+v", c.Brush())
	}
	c.SetBrush(0, color.White)
	if c.Brush().Size != 42 || c.Brush().Color != color.White {
		t.Errorf("SetBrush colour: got %+v", c.Brush())
	}
}

func TestSnapshot(t *testing.T) {
	c := newTestController(Modal)
	c.KeyDown(KeyAlt, false)
	c.Pointer(ev(Press, 0, 0))
	c.Pointer(ev(Drag, 100, 100))

	s := c.Snapshot()
	if s.Variant != "modal" || s.Tool != "select" || s.Gesture != "dragging" {
		t.Errorf("snapshot: %+v", s)
	}
	if s.Provisional == nil || s.Provisional.W != 100 {
		t.Errorf("provisional: %+v", s.Provisional)
	}
	if s.Cursor == nil || s.Cursor.X != 50 || s.Cursor.Y != 50 {
		t.Errorf("cursor should be in visual space: %+v", s.Cursor)
	}
	if len(s.Modifiers) != 1 || s.Modifiers[0] != "Alt" {
		t.Errorf("modifiers: %v", s.Modifiers)
	}
}

func TestParseHelpers(t *testing.T) {
	if tool, err := ParseTool("Eraser"); err != nil || tool != Eraser {
		t.Errorf("ParseTool: %v %v", tool, err)
	}
	if _, err := ParseTool("lasso"); err == nil {
		t.Error("ParseTool should reject unknown tools")
	}
	if v, err := ParseVariant(""); err != nil || v != Full {
		t.Errorf("ParseVariant empty: %v %v", v, err)
	}
	if _, err := ParseVariant("popup"); err == nil {
		t.Error("ParseVariant should reject unknown variants")
	}
	for in, want := range map[string]Kind{"down": Press, "move": Drag, "up": Release, "leave": Cancel, "press": Press} {
		if k, err := ParseKind(in); err != nil || k != want {
			t.Errorf("ParseKind(%q): %v %v", in, k, err)
		}
	}
	if _, err := ParseKind("hover"); err == nil {
		t.Error("ParseKind should reject unknown kinds")
	}
}
