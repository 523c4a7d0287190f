package paint

import (
	"image/color"
	"testing"

	"github.com/ironsheep/mask-studio-mcp/internal/geom"
)

var red = color.RGBA{255, 0, 0, 255}

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }

func TestNewSurface_Transparent(t *testing.T) {
	s := NewSurface(100, 80)
	if s.Width() != 100 || s.Height() != 80 {
		t.Fatalf("size: got %dx%d, want 100x80", s.Width(), s.Height())
	}
	if _, ok := s.OpaqueBounds(1); ok {
		t.Error("fresh surface should have no opaque bounds")
	}
}

func TestNewSurface_NegativeSize(t *testing.T) {
	s := NewSurface(-5, -5)
	if s.Width() != 0 || s.Height() != 0 {
		t.Errorf("size: got %dx%d, want 0x0", s.Width(), s.Height())
	}
	// Must not panic on an empty surface.
	s.StrokeTo(pt(0, 0), pt(10, 10), Brush, 4, red)
	if _, ok := s.OpaqueBounds(1); ok {
		t.Error("empty surface reported opaque bounds")
	}
}

func TestStrokeTo_BrushIsSemiTransparent(t *testing.T) {
	s := NewSurface(100, 100)
	s.StrokeTo(pt(20, 50), pt(80, 50), Brush, 10, red)

	// 0.5 opacity over transparent lands on 127 or 128 depending on rounding
	a := s.AlphaAt(50, 50)
	if a < 126 || a > 129 {
		t.Errorf("alpha on stroke centre: got %d, want ~128", a)
	}
	if s.AlphaAt(50, 10) != 0 {
		t.Error("pixel far from stroke was painted")
	}
}

func TestStrokeTo_BrushStacks(t *testing.T) {
	s := NewSurface(100, 100)
	s.StrokeTo(pt(20, 50), pt(80, 50), Brush, 10, red)
	first := s.AlphaAt(50, 50)
	s.StrokeTo(pt(20, 50), pt(80, 50), Brush, 10, red)
	second := s.AlphaAt(50, 50)

	if second <= first {
		t.Errorf("stacked alpha: got %d after %d, want increase", second, first)
	}
}

func TestStrokeTo_Dot(t *testing.T) {
	s := NewSurface(100, 100)
	s.StrokeTo(pt(50, 50), pt(50, 50), Brush, 20, red)

	r, ok := s.OpaqueBounds(1)
	if !ok {
		t.Fatal("dot left no paint")
	}
	// radius 10 around (50,50)
	if r.X < 39 || r.X > 41 || r.W < 19 || r.W > 21 {
		t.Errorf("dot bounds: got %+v", r)
	}
	if s.AlphaAt(50, 50) == 0 {
		t.Error("dot centre not painted")
	}
	if s.AlphaAt(50, 35) != 0 {
		t.Error("pixel outside dot radius painted")
	}
}

func TestStrokeTo_RoundCap(t *testing.T) {
	s := NewSurface(200, 100)
	s.StrokeTo(pt(50, 50), pt(150, 50), Brush, 20, red)

	// Round cap reaches past the endpoint on the axis...
	if s.AlphaAt(157, 50) == 0 {
		t.Error("round cap missing beyond end point")
	}
	// ...but not into the square corner a butt/square cap would fill.
	if s.AlphaAt(159, 59) != 0 {
		t.Error("cap corner painted, cap is not round")
	}
}

func TestStrokeTo_ZeroWidth(t *testing.T) {
	s := NewSurface(50, 50)
	s.StrokeTo(pt(0, 0), pt(40, 40), Brush, 0, red)
	if _, ok := s.OpaqueBounds(1); ok {
		t.Error("zero-width stroke painted pixels")
	}
}

func TestStrokeTo_OutsideSurface(t *testing.T) {
	s := NewSurface(50, 50)
	s.StrokeTo(pt(-100, -100), pt(-80, -80), Brush, 10, red)
	if _, ok := s.OpaqueBounds(1); ok {
		t.Error("stroke outside surface painted pixels")
	}

	s.StrokeTo(pt(-20, 25), pt(70, 25), Brush, 10, red)
	r, ok := s.OpaqueBounds(1)
	if !ok {
		t.Fatal("crossing stroke left no paint")
	}
	if r.X != 0 || r.Right() != 50 {
		t.Errorf("crossing stroke bounds: got %+v, want full width", r)
	}
}

func TestStrokeTo_EraseSamePath(t *testing.T) {
	s := NewSurface(300, 200)
	path := []geom.Point{pt(20, 30), pt(80, 60), pt(150, 40), pt(220, 150), pt(260, 170)}

	s.StrokeTo(path[0], path[0], Brush, 17, red)
	for i := 1; i < len(path); i++ {
		s.StrokeTo(path[i-1], path[i], Brush, 17, red)
	}
	if _, ok := s.OpaqueBounds(DefaultScanStride); !ok {
		t.Fatal("brush stroke not detected")
	}

	s.StrokeTo(path[0], path[0], Eraser, 17, nil)
	for i := 1; i < len(path); i++ {
		s.StrokeTo(path[i-1], path[i], Eraser, 17, nil)
	}

	if r, ok := s.OpaqueBounds(1); ok {
		t.Errorf("erased stroke still has opaque bounds %+v", r)
	}
}

func TestStrokeTo_EraserIgnoresColour(t *testing.T) {
	s := NewSurface(100, 100)
	s.StrokeTo(pt(10, 10), pt(90, 10), Brush, 10, color.RGBA{0, 0, 255, 255})
	s.StrokeTo(pt(10, 90), pt(90, 90), Brush, 10, color.RGBA{0, 255, 0, 255})

	s.StrokeTo(pt(50, 0), pt(50, 100), Eraser, 20, color.White)

	if s.AlphaAt(50, 10) != 0 || s.AlphaAt(50, 90) != 0 {
		t.Error("eraser left paint under its path")
	}
	if s.AlphaAt(15, 10) == 0 || s.AlphaAt(85, 90) == 0 {
		t.Error("eraser removed paint outside its path")
	}
}

func TestClear(t *testing.T) {
	s := NewSurface(100, 100)
	s.StrokeTo(pt(10, 10), pt(90, 90), Brush, 10, red)
	s.Clear()
	if _, ok := s.OpaqueBounds(1); ok {
		t.Error("Clear left paint behind")
	}
}

func TestReset(t *testing.T) {
	s := NewSurface(100, 100)
	s.StrokeTo(pt(10, 10), pt(90, 90), Brush, 10, red)
	s.Reset(40, 30)
	if s.Width() != 40 || s.Height() != 30 {
		t.Errorf("size after Reset: got %dx%d", s.Width(), s.Height())
	}
	if _, ok := s.OpaqueBounds(1); ok {
		t.Error("Reset left paint behind")
	}
}

func TestOpaqueBounds_Stride(t *testing.T) {
	s := NewSurface(200, 200)
	s.StrokeTo(pt(40, 100), pt(160, 100), Brush, 30, red)

	exact, ok := s.OpaqueBounds(1)
	if !ok {
		t.Fatal("no bounds with full scan")
	}
	coarse, ok := s.OpaqueBounds(5)
	if !ok {
		t.Fatal("no bounds with stride 5")
	}

	// Sampling can only shrink the box, and by less than one stride per edge.
	if coarse.X < exact.X || coarse.Right() > exact.Right() {
		t.Errorf("coarse %+v not inside exact %+v", coarse, exact)
	}
	if coarse.X-exact.X >= 5 || exact.Right()-coarse.Right() >= 5 {
		t.Errorf("coarse %+v too far from exact %+v", coarse, exact)
	}
	if coarse.W < 0 || coarse.H < 0 {
		t.Errorf("negative bounds: %+v", coarse)
	}
}

func TestOpaqueBounds_ZeroStrideScansAll(t *testing.T) {
	s := NewSurface(20, 20)
	s.img.Pix[s.img.PixOffset(3, 7)+3] = 1

	r, ok := s.OpaqueBounds(0)
	if !ok {
		t.Fatal("single pixel not found")
	}
	if r != (geom.Rect{X: 3, Y: 7, W: 1, H: 1}) {
		t.Errorf("bounds: got %+v", r)
	}
}

func TestMask(t *testing.T) {
	s := NewSurface(100, 100)
	s.StrokeTo(pt(20, 50), pt(80, 50), Brush, 10, red)

	m := s.Mask()
	if m.Bounds() != s.Image().Bounds() {
		t.Fatalf("mask bounds %v, want %v", m.Bounds(), s.Image().Bounds())
	}
	if got := m.GrayAt(50, 50).Y; got != 255 {
		t.Errorf("painted pixel: got %d, want 255", got)
	}
	if got := m.GrayAt(50, 10).Y; got != 0 {
		t.Errorf("unpainted pixel: got %d, want 0", got)
	}
}

func TestTool_String(t *testing.T) {
	if Brush.String() != "brush" || Eraser.String() != "eraser" {
		t.Errorf("unexpected names: %s %s", Brush, Eraser)
	}
}
