// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package document

import (
	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// TextDirection is the resolved direction of a text layer.
type TextDirection int

const (
	// DirectionLTR is left-to-right text.
	DirectionLTR TextDirection = iota
	// DirectionRTL is right-to-left text.
	DirectionRTL
	// DirectionMixed contains both LTR and RTL runs.
	DirectionMixed
)

func (d TextDirection) String() string {
	switch d {
	case DirectionRTL:
		return "rtl"
	case DirectionMixed:
		return "mixed"
	default:
		return "ltr"
	}
}

// TextRun is a contiguous span of text with uniform direction.
type TextRun struct {
	// Text is the run content.
	Text string
	// RTL reports whether the run reads right to left.
	RTL bool
	// Script is the dominant script of the run.
	Script language.Script
}

// TextInfo describes a text layer's content for layout purposes.
//
// Shaping needs font data the document does not carry, so the analysis
// stops at direction runs and advance estimation. Engines use it to
// place and align text blocks.
type TextInfo struct {
	// Runes is the number of code points.
	Runes int
	// Direction is the overall direction of the text.
	Direction TextDirection
	// Runs are the direction runs in visual order.
	Runs []TextRun
}

// AnalyzeText resolves bidirectional runs and scripts for a text layer.
func AnalyzeText(text string) *TextInfo {
	info := &TextInfo{}
	if text == "" {
		return info
	}

	runes := []rune(text)
	info.Runes = len(runes)

	p := bidi.Paragraph{}
	if _, err := p.SetString(text); err != nil {
		// Treat undecodable input as a single LTR run.
		info.Runs = []TextRun{{Text: text, Script: dominantScript(runes)}}
		return info
	}

	ordering, err := p.Order()
	if err != nil {
		info.Runs = []TextRun{{Text: text, Script: dominantScript(runes)}}
		return info
	}

	var sawLTR, sawRTL bool
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		rtl := run.Direction() == bidi.RightToLeft
		if rtl {
			sawRTL = true
		} else {
			sawLTR = true
		}
		runText := run.String()
		info.Runs = append(info.Runs, TextRun{
			Text:   runText,
			RTL:    rtl,
			Script: dominantScript([]rune(runText)),
		})
	}

	switch {
	case sawLTR && sawRTL:
		info.Direction = DirectionMixed
	case sawRTL:
		info.Direction = DirectionRTL
	default:
		info.Direction = DirectionLTR
	}
	return info
}

// EstimateWidth returns the estimated advance of the text in pixels at
// the given font size. Without font metrics the estimate assumes an
// average advance of half the em size, which is close for Latin text.
func (ti *TextInfo) EstimateWidth(size float64) float64 {
	return float64(ti.Runes) * size * 0.5
}

// dominantScript returns the script of the first rune with a concrete
// script, skipping spaces and punctuation that report Common.
func dominantScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
