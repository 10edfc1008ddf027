// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package document loads and validates animation documents.
//
// A document is a JSON description of a timed composition: a frame
// range, a frame rate, a pixel size, and an ordered stack of layers.
// Solid layers carry a color, image layers reference an asset by name,
// and text layers carry content that is analyzed for direction and
// script before layout:
//
//	doc, err := document.Load("intro.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.Name, doc.Frames(), "frames")
//
// Documents are plain data. Playback and rendering live in the motion
// package; asset resolution is the caller's concern.
package document
