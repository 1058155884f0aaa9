// Package geometry provides screen rectangle types and parsing.
package geometry

import (
	"fmt"
	"regexp"
	"strconv"
)

// RectFormat is the canonical textual form of a capture rectangle.
const RectFormat = "WIDTHxHEIGHT+OFFSET_X,OFFSET_Y"

// rectPattern matches strings like "1920x1080+0,0". All four fields are
// non-negative decimal integers with no surrounding whitespace.
var rectPattern = regexp.MustCompile(`^(\d+)x(\d+)\+(\d+),(\d+)$`)

// Rect describes a rectangular capture region in screen coordinates.
type Rect struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// ParseError reports a rectangle string that does not match RectFormat.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid rectangle %q: must be of format %s (example: 1920x1080+0,0)", e.Input, RectFormat)
}

// ParseRect parses a rectangle string of the form "WxH+X,Y".
// It returns a *ParseError for any input that does not match exactly,
// including empty strings, negative numbers, and trailing characters.
func ParseRect(s string) (Rect, error) {
	m := rectPattern.FindStringSubmatch(s)
	if m == nil {
		return Rect{}, &ParseError{Input: s}
	}

	fields := make([]int, 4)
	for i, group := range m[1:] {
		n, err := strconv.Atoi(group)
		if err != nil {
			// Digits too large for int, e.g. "99999999999999999999".
			return Rect{}, &ParseError{Input: s}
		}
		fields[i] = n
	}

	return Rect{Width: fields[0], Height: fields[1], X: fields[2], Y: fields[3]}, nil
}

// String returns the canonical "WxH+X,Y" form.
func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d,%d", r.Width, r.Height, r.X, r.Y)
}

// EndX returns the inclusive right edge coordinate.
func (r Rect) EndX() int {
	return r.X + r.Width - 1
}

// EndY returns the inclusive bottom edge coordinate.
func (r Rect) EndY() int {
	return r.Y + r.Height - 1
}

// IsValid reports whether the rectangle has a positive area.
func (r Rect) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.EndX(), other.EndX())
	maxY := max(r.EndY(), other.EndY())

	return Rect{
		Width:  maxX - minX + 1,
		Height: maxY - minY + 1,
		X:      minX,
		Y:      minY,
	}
}
