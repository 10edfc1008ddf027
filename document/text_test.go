package document

import (
	"testing"

	"github.com/go-text/typesetting/language"
)

func TestAnalyzeTextEmpty(t *testing.T) {
	info := AnalyzeText("")
	if info.Runes != 0 {
		t.Errorf("Runes = %d, want 0", info.Runes)
	}
	if len(info.Runs) != 0 {
		t.Errorf("Runs = %v, want none", info.Runs)
	}
	if info.Direction != DirectionLTR {
		t.Errorf("Direction = %v, want ltr", info.Direction)
	}
}

func TestAnalyzeTextLatin(t *testing.T) {
	info := AnalyzeText("Hello world")

	if info.Runes != 11 {
		t.Errorf("Runes = %d, want 11", info.Runes)
	}
	if info.Direction != DirectionLTR {
		t.Errorf("Direction = %v, want ltr", info.Direction)
	}
	if len(info.Runs) != 1 {
		t.Fatalf("len(Runs) = %d, want 1", len(info.Runs))
	}
	if info.Runs[0].RTL {
		t.Error("Latin run should not be RTL")
	}
	if info.Runs[0].Script != language.Latin {
		t.Errorf("Script = %v, want Latin", info.Runs[0].Script)
	}
}

func TestAnalyzeTextHebrew(t *testing.T) {
	info := AnalyzeText("שלום")

	if info.Direction != DirectionRTL {
		t.Errorf("Direction = %v, want rtl", info.Direction)
	}
	if len(info.Runs) != 1 {
		t.Fatalf("len(Runs) = %d, want 1", len(info.Runs))
	}
	if !info.Runs[0].RTL {
		t.Error("Hebrew run should be RTL")
	}
}

func TestAnalyzeTextMixed(t *testing.T) {
	info := AnalyzeText("Hello שלום")

	if info.Direction != DirectionMixed {
		t.Errorf("Direction = %v, want mixed", info.Direction)
	}
	if len(info.Runs) < 2 {
		t.Fatalf("len(Runs) = %d, want at least 2", len(info.Runs))
	}

	var sawRTL, sawLTR bool
	for _, run := range info.Runs {
		if run.RTL {
			sawRTL = true
		} else {
			sawLTR = true
		}
	}
	if !sawRTL || !sawLTR {
		t.Errorf("mixed text should produce both directions, got RTL=%v LTR=%v", sawRTL, sawLTR)
	}
}

func TestAnalyzeTextRuneCount(t *testing.T) {
	// Multi-byte runes count as single code points.
	info := AnalyzeText("héllo")
	if info.Runes != 5 {
		t.Errorf("Runes = %d, want 5", info.Runes)
	}
}

func TestEstimateWidth(t *testing.T) {
	info := AnalyzeText("Hello")

	got := info.EstimateWidth(32)
	want := 5 * 32 * 0.5
	if got != want {
		t.Errorf("EstimateWidth(32) = %v, want %v", got, want)
	}

	if AnalyzeText("").EstimateWidth(32) != 0 {
		t.Error("empty text should estimate zero width")
	}
}

func TestTextDirectionString(t *testing.T) {
	tests := []struct {
		dir  TextDirection
		want string
	}{
		{DirectionLTR, "ltr"},
		{DirectionRTL, "rtl"},
		{DirectionMixed, "mixed"},
	}
	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.want {
			t.Errorf("TextDirection(%d).String() = %q, want %q", tt.dir, got, tt.want)
		}
	}
}
