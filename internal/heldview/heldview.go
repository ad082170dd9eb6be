// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/heldview/heldview.go
// Summary: Renders a held pane's scrollback tail (raw bytes off
// ptyio.Pane.Tail: content kept for inspection after the backing
// process exits) into a styled render.Grid, the way a
// rendered pane's content always ends up as [][]Cell before it
// reaches a screen (tui/pty_app.go's Render/applyParserStyle).
//
// Grounded on apps/texelterm/txfmt/chroma.go: tokenize with Chroma,
// map each token's style entry to colors/attributes, skip tokens that
// match the base text color so the grid's default style shows
// through. That file colorizes cells already produced by a VT100
// parser; this one has no parser to lean on (see ptyio's doc comment)
// so it builds the grid directly off chroma's token stream instead of
// patching an existing one. Language detection is go-enry's job
// (go-enry/go-enry), falling back to Chroma's own content analysis
// the same way chroma.go's getLexer does when no name is given.
package heldview

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	enry "github.com/go-enry/go-enry/v2"

	"github.com/framegrace/texelation-core/internal/render"
)

// defaultStyleName mirrors txfmt's default Chroma style.
const defaultStyleName = "catppuccin-mocha"

// Options controls how a held pane's tail is rendered.
type Options struct {
	// FilenameHint, if known (e.g. the command run in the pane, or a
	// file the command was editing), helps both go-enry's and
	// Chroma's language detection.
	FilenameHint string
	// StyleName is a Chroma style name; empty selects defaultStyleName.
	StyleName string
	// Cols is the fixed grid width; longer lines are truncated.
	Cols int
	// MaxLines bounds how many trailing lines are rendered; 0 means
	// all of content's lines.
	MaxLines int
}

// Render turns content (typically a ptyio.Pane.Tail() result) into a
// styled grid sized Cols x min(MaxLines, line count).
func Render(content []byte, opts Options) render.Grid {
	text := strings.TrimRight(string(content), "\n")
	if text == "" {
		return render.NewGrid(opts.Cols, 0)
	}
	lines := strings.Split(text, "\n")
	if opts.MaxLines > 0 && len(lines) > opts.MaxLines {
		lines = lines[len(lines)-opts.MaxLines:]
	}
	joined := strings.Join(lines, "\n")

	style := chromaStyle(opts.StyleName)
	lexer := resolveLexer(opts.FilenameHint, []byte(joined))
	lexer = chroma.Coalesce(lexer)

	grid := render.NewGrid(opts.Cols, len(lines))
	fillPlain(grid, lines)

	tokens, err := chroma.Tokenise(lexer, nil, joined)
	if err != nil {
		return grid
	}
	applyTokens(grid, tokens, style)
	return grid
}

// DetectLanguage reports the go-enry language name for content, using
// filenameHint (which may be empty) as a secondary signal.
func DetectLanguage(filenameHint string, content []byte) string {
	return enry.GetLanguage(filenameHint, content)
}

func chromaStyle(name string) *chroma.Style {
	if name == "" {
		name = defaultStyleName
	}
	if s := styles.Get(name); s != nil {
		return s
	}
	return styles.Fallback
}

// resolveLexer prefers a lexer matched off the filename hint, then
// one named after the go-enry-detected language, then Chroma's own
// content analysis, the same fallback order chroma.go's getLexer uses
// when given no explicit name.
func resolveLexer(filenameHint string, content []byte) chroma.Lexer {
	if filenameHint != "" {
		if l := lexers.Match(filenameHint); l != nil {
			return l
		}
		if lang := enry.GetLanguage(filenameHint, content); lang != "" {
			if l := lexers.Get(lang); l != nil {
				return l
			}
		}
	}
	if l := lexers.Analyse(string(content)); l != nil {
		return l
	}
	return lexers.Fallback
}

// fillPlain seeds the grid with content's runes in the default style
// before any token coloring is applied, so a Tokenise failure still
// leaves a readable grid.
func fillPlain(grid render.Grid, lines []string) {
	cols := grid.Cols()
	for y, line := range lines {
		x := 0
		for _, r := range line {
			if x >= cols {
				break
			}
			grid[y][x].Ch = r
			x++
		}
	}
}

// applyTokens walks the token stream in lockstep with the grid's
// (row, col) cursor, advancing past newlines exactly as the source
// text dictates.
func applyTokens(grid render.Grid, tokens []chroma.Token, style *chroma.Style) {
	cols := grid.Cols()
	rows := grid.Rows()
	baseColour := style.Get(chroma.Text).Colour
	row, col := 0, 0

	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		entry := style.Get(tok.Type)
		cellStyle, hasStyle := tokenStyle(entry, baseColour)

		for _, r := range tok.Value {
			if r == '\n' {
				row++
				col = 0
				if row >= rows {
					return
				}
				continue
			}
			if row < rows && col < cols && hasStyle {
				grid[row][col].Style = cellStyle
			}
			col++
		}
	}
}

// tokenStyle builds a tcell.Style from a Chroma style entry. hasStyle
// is false when the entry carries no distinct color or attribute,
// matching chroma.go's "skip tokens at the base text color" rule.
func tokenStyle(entry chroma.StyleEntry, baseColour chroma.Colour) (tcell.Style, bool) {
	bold := entry.Bold == chroma.Yes
	italic := entry.Italic == chroma.Yes
	underline := entry.Underline == chroma.Yes
	distinctColor := entry.Colour.IsSet() && entry.Colour != baseColour

	if !distinctColor && !bold && !italic && !underline {
		return tcell.StyleDefault, false
	}

	style := tcell.StyleDefault
	if distinctColor {
		c := entry.Colour
		style = style.Foreground(tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue())))
	}
	style = style.Bold(bold).Italic(italic).Underline(underline)
	return style, true
}
