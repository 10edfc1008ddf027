package software

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/motion/engine"
)

func newConn(t *testing.T) engine.Conn {
	t.Helper()
	conn, err := New().Open(engine.Options{Label: "test"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return conn
}

func pixelAt(target *engine.Target, x, y int) (r, g, b, a uint8) {
	i := y*target.Stride + x*4
	return target.Pix[i], target.Pix[i+1], target.Pix[i+2], target.Pix[i+3]
}

func TestProviderRegistered(t *testing.T) {
	if _, ok := engine.Lookup("software"); !ok {
		t.Error("software provider should be auto-registered")
	}
}

func TestConnName(t *testing.T) {
	conn := newConn(t)
	defer conn.Close()

	if conn.Name() != "software" {
		t.Errorf("Name() = %q, want %q", conn.Name(), "software")
	}
}

func TestSubmitClear(t *testing.T) {
	conn := newConn(t)
	defer conn.Close()

	target, err := engine.NewTarget(8, 8)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}

	batch := engine.NewBatch()
	batch.Clear(color.RGBA{R: 10, G: 20, B: 30, A: 255})

	if err := conn.Submit(batch, target); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	for _, pt := range []struct{ x, y int }{{0, 0}, {7, 7}, {3, 4}} {
		r, g, b, a := pixelAt(target, pt.x, pt.y)
		if r != 10 || g != 20 || b != 30 || a != 255 {
			t.Errorf("pixel (%d,%d) = (%d,%d,%d,%d), want (10,20,30,255)",
				pt.x, pt.y, r, g, b, a)
		}
	}
}

func TestSubmitFillRect(t *testing.T) {
	conn := newConn(t)
	defer conn.Close()

	target, _ := engine.NewTarget(16, 16)

	batch := engine.NewBatch()
	batch.Clear(color.RGBA{A: 255})
	batch.FillRect(4, 4, 8, 8, color.RGBA{R: 255, A: 255}, 1)

	if err := conn.Submit(batch, target); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Inside the rect.
	if r, _, _, _ := pixelAt(target, 8, 8); r != 255 {
		t.Errorf("inside pixel r = %d, want 255", r)
	}
	// Outside the rect.
	if r, _, _, _ := pixelAt(target, 1, 1); r != 0 {
		t.Errorf("outside pixel r = %d, want 0", r)
	}
}

func TestSubmitFillRectOpacity(t *testing.T) {
	conn := newConn(t)
	defer conn.Close()

	target, _ := engine.NewTarget(4, 4)

	batch := engine.NewBatch()
	batch.Clear(color.RGBA{A: 255})
	batch.FillRect(0, 0, 4, 4, color.RGBA{R: 200, A: 255}, 0.5)

	if err := conn.Submit(batch, target); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	r, _, _, _ := pixelAt(target, 2, 2)
	// 50% of 200 over black lands near 100.
	if r < 80 || r > 120 {
		t.Errorf("half-opacity pixel r = %d, want ~100", r)
	}
}

func TestSubmitFillRectClipped(t *testing.T) {
	conn := newConn(t)
	defer conn.Close()

	target, _ := engine.NewTarget(8, 8)

	batch := engine.NewBatch()
	// Partially off every edge; must not panic.
	batch.FillRect(-4, -4, 20, 20, color.RGBA{G: 255, A: 255}, 1)
	batch.FillRect(100, 100, 5, 5, color.RGBA{B: 255, A: 255}, 1)

	if err := conn.Submit(batch, target); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if _, g, _, _ := pixelAt(target, 0, 0); g != 255 {
		t.Errorf("clipped fill missed corner, g = %d", g)
	}
}

func TestSubmitDrawImage(t *testing.T) {
	conn := newConn(t)
	defer conn.Close()

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255 // solid white
	}

	target, _ := engine.NewTarget(8, 8)

	batch := engine.NewBatch()
	batch.Clear(color.RGBA{A: 255})
	batch.DrawImage(src, 2, 2, 4, 4, 1)

	if err := conn.Submit(batch, target); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Center of the scaled image.
	if r, _, _, _ := pixelAt(target, 4, 4); r != 255 {
		t.Errorf("scaled image center r = %d, want 255", r)
	}
	// Outside the draw rect stays black.
	if r, _, _, _ := pixelAt(target, 0, 0); r != 0 {
		t.Errorf("pixel outside draw rect r = %d, want 0", r)
	}
}

func TestSubmitMark(t *testing.T) {
	conn := newConn(t)
	defer conn.Close()

	target, _ := engine.NewTarget(4, 4)

	batch := engine.NewBatch()
	batch.Mark("frame", 3)

	if err := conn.Submit(batch, target); err != nil {
		t.Errorf("Submit() with mark error = %v", err)
	}
}

func TestSubmitNilInputs(t *testing.T) {
	conn := newConn(t)
	defer conn.Close()

	target, _ := engine.NewTarget(4, 4)
	batch := engine.NewBatch()

	if err := conn.Submit(nil, target); !errors.Is(err, engine.ErrNilBatch) {
		t.Errorf("Submit(nil, target) error = %v, want ErrNilBatch", err)
	}
	if err := conn.Submit(batch, nil); !errors.Is(err, engine.ErrNilTarget) {
		t.Errorf("Submit(batch, nil) error = %v, want ErrNilTarget", err)
	}
}

func TestSubmitAfterClose(t *testing.T) {
	conn := newConn(t)
	conn.Close()

	target, _ := engine.NewTarget(4, 4)
	batch := engine.NewBatch()

	if err := conn.Submit(batch, target); !errors.Is(err, engine.ErrConnClosed) {
		t.Errorf("Submit() after Close error = %v, want ErrConnClosed", err)
	}
	if err := conn.Flush(); !errors.Is(err, engine.ErrConnClosed) {
		t.Errorf("Flush() after Close error = %v, want ErrConnClosed", err)
	}
}

func TestOpenViaRegistry(t *testing.T) {
	conn, err := engine.Open("software", engine.Options{})
	if err != nil {
		t.Fatalf("engine.Open(software) error = %v", err)
	}
	defer conn.Close()

	if conn.Name() != "software" {
		t.Errorf("conn.Name() = %q, want %q", conn.Name(), "software")
	}
}

func BenchmarkSubmitFill(b *testing.B) {
	conn, _ := New().Open(engine.Options{})
	defer conn.Close()

	target, _ := engine.NewTarget(640, 480)
	batch := engine.NewBatch()
	batch.Clear(color.RGBA{A: 255})
	batch.FillRect(100, 100, 400, 300, color.RGBA{R: 255, A: 128}, 0.8)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = conn.Submit(batch, target)
	}
}
