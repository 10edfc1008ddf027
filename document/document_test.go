package document

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

const sampleJSON = `{
	"name": "intro",
	"fr": 30,
	"ip": 0,
	"op": 90,
	"w": 512,
	"h": 288,
	"bg": "#101020",
	"layers": [
		{"name": "backdrop", "kind": "solid", "x": 0, "y": 0, "w": 512, "h": 288, "color": "#3040ff"},
		{"name": "badge", "kind": "image", "x": 32, "y": 32, "w": 64, "h": 64, "src": "badge", "opacity": 0.9},
		{"name": "title", "kind": "text", "x": 120, "y": 200, "w": 272, "h": 48, "text": "Hello", "size": 32, "ip": 10, "op": 80}
	]
}`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Name != "intro" {
		t.Errorf("Name = %q, want %q", doc.Name, "intro")
	}
	if doc.FrameRate != 30 {
		t.Errorf("FrameRate = %v, want 30", doc.FrameRate)
	}
	if doc.Frames() != 90 {
		t.Errorf("Frames() = %d, want 90", doc.Frames())
	}
	if doc.Duration() != 3 {
		t.Errorf("Duration() = %v, want 3", doc.Duration())
	}
	if len(doc.Layers) != 3 {
		t.Fatalf("len(Layers) = %d, want 3", len(doc.Layers))
	}
	if doc.Layers[1].Kind != KindImage {
		t.Errorf("Layers[1].Kind = %q, want %q", doc.Layers[1].Kind, KindImage)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("Parse() should fail on malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Document {
		return &Document{FrameRate: 30, InPoint: 0, OutPoint: 60, Width: 100, Height: 100}
	}

	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr error
	}{
		{"zero frame rate", func(d *Document) { d.FrameRate = 0 }, ErrNoFrameRate},
		{"negative frame rate", func(d *Document) { d.FrameRate = -1 }, ErrNoFrameRate},
		{"empty range", func(d *Document) { d.OutPoint = 0 }, ErrEmptyRange},
		{"zero width", func(d *Document) { d.Width = 0 }, ErrBadDimensions},
		{"bad background", func(d *Document) { d.Background = "red" }, ErrBadColor},
		{"unknown layer kind", func(d *Document) {
			d.Layers = []Layer{{Name: "x", Kind: "video"}}
		}, ErrUnknownKind},
		{"solid without color", func(d *Document) {
			d.Layers = []Layer{{Name: "x", Kind: KindSolid}}
		}, ErrBadColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			tt.mutate(d)
			err := d.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := base().Validate(); err != nil {
		t.Errorf("Validate() on good document error = %v", err)
	}
}

func TestValidateImageLayerNeedsSrc(t *testing.T) {
	d := &Document{
		FrameRate: 30, OutPoint: 60, Width: 100, Height: 100,
		Layers: []Layer{{Name: "pic", Kind: KindImage}},
	}
	err := d.Validate()
	if err == nil || !strings.Contains(err.Error(), "src") {
		t.Errorf("Validate() error = %v, want src complaint", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		a       uint8
		wantErr bool
	}{
		{"#ff0000", 255, 0, 0, 255, false},
		{"#00ff00", 0, 255, 0, 255, false},
		{"#10203040", 16, 32, 48, 64, false},
		{"ff0000", 0, 0, 0, 0, true},
		{"#ff00", 0, 0, 0, 0, true},
		{"#gggggg", 0, 0, 0, 0, true},
		{"", 0, 0, 0, 0, true},
	}

	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q) error = %v", tt.in, err)
			continue
		}
		if c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != tt.a {
			t.Errorf("ParseColor(%q) = %v, want (%d,%d,%d,%d)", tt.in, c, tt.r, tt.g, tt.b, tt.a)
		}
	}
}

func TestLayerVisibleAt(t *testing.T) {
	l := Layer{InPoint: 10, OutPoint: 20}

	if l.VisibleAt(5) {
		t.Error("layer should be hidden before in point")
	}
	if !l.VisibleAt(10) {
		t.Error("layer should be visible at in point")
	}
	if !l.VisibleAt(19) {
		t.Error("layer should be visible inside range")
	}
	if l.VisibleAt(20) {
		t.Error("layer should be hidden at out point")
	}

	// Zero out point means visible to the end.
	open := Layer{InPoint: 0}
	if !open.VisibleAt(1e6) {
		t.Error("layer with zero out point should stay visible")
	}
}

func TestEffectiveOpacity(t *testing.T) {
	if got := (&Layer{}).EffectiveOpacity(); got != 1 {
		t.Errorf("EffectiveOpacity() zero value = %v, want 1", got)
	}
	if got := (&Layer{Opacity: 0.25}).EffectiveOpacity(); got != 0.25 {
		t.Errorf("EffectiveOpacity() = %v, want 0.25", got)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"anim/intro.json": {Data: []byte(sampleJSON)},
	}

	doc, err := LoadFS(fsys, "anim/intro.json")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	if doc.Name != "intro" {
		t.Errorf("Name = %q, want %q", doc.Name, "intro")
	}

	if _, err := LoadFS(fsys, "missing.json"); err == nil {
		t.Error("LoadFS() should fail on missing file")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(marshaled) error = %v", err)
	}
	if again.Name != doc.Name || again.Frames() != doc.Frames() || len(again.Layers) != len(doc.Layers) {
		t.Error("round trip changed document")
	}
}
