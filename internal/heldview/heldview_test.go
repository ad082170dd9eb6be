// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package heldview

import "testing"

func TestRenderProducesOneRowPerLineUpToMaxLines(t *testing.T) {
	content := []byte("package main\n\nfunc main() {}\n")
	grid := Render(content, Options{Cols: 20, MaxLines: 10})
	if grid.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", grid.Rows())
	}
	if grid.Cols() != 20 {
		t.Fatalf("expected 20 cols, got %d", grid.Cols())
	}
	if grid[0][0].Ch != 'p' {
		t.Fatalf("expected first cell to be 'p', got %q", grid[0][0].Ch)
	}
}

func TestRenderTruncatesToMaxLines(t *testing.T) {
	content := []byte("one\ntwo\nthree\nfour\n")
	grid := Render(content, Options{Cols: 10, MaxLines: 2})
	if grid.Rows() != 2 {
		t.Fatalf("expected 2 trailing rows, got %d", grid.Rows())
	}
	if grid[0][0].Ch != 't' || grid[1][0].Ch != 'f' {
		t.Fatalf("expected the last two lines ('three','four'), got %q/%q", string(grid[0][0].Ch), string(grid[1][0].Ch))
	}
}

func TestRenderOnEmptyContentReturnsNoRows(t *testing.T) {
	grid := Render(nil, Options{Cols: 10})
	if grid.Rows() != 0 {
		t.Fatalf("expected 0 rows for empty content, got %d", grid.Rows())
	}
}

func TestRenderTruncatesLongLinesToCols(t *testing.T) {
	content := []byte("0123456789abcdef")
	grid := Render(content, Options{Cols: 8})
	if grid.Cols() != 8 {
		t.Fatalf("expected 8 cols, got %d", grid.Cols())
	}
	if grid[0][7].Ch != '7' {
		t.Fatalf("expected the 8th cell to hold '7', got %q", string(grid[0][7].Ch))
	}
}

func TestDetectLanguageRecognizesGoSource(t *testing.T) {
	lang := DetectLanguage("main.go", []byte("package main\n\nfunc main() {}\n"))
	if lang != "Go" {
		t.Fatalf("expected go-enry to detect Go, got %q", lang)
	}
}
