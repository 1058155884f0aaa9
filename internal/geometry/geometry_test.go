package geometry

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseRect(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Rect
		wantErr bool
	}{
		{
			name:  "full hd at origin",
			input: "1920x1080+0,0",
			want:  Rect{Width: 1920, Height: 1080, X: 0, Y: 0},
		},
		{
			name:  "offset rectangle",
			input: "1280x720+640,360",
			want:  Rect{Width: 1280, Height: 720, X: 640, Y: 360},
		},
		{
			name:  "single pixel",
			input: "1x1+0,0",
			want:  Rect{Width: 1, Height: 1, X: 0, Y: 0},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "missing offset separator",
			input:   "1920x1080",
			wantErr: true,
		},
		{
			name:    "negative offset",
			input:   "1920x1080+-10,0",
			wantErr: true,
		},
		{
			name:    "non-numeric width",
			input:   "axb+0,0",
			wantErr: true,
		},
		{
			name:    "trailing characters",
			input:   "1920x1080+0,0 ",
			wantErr: true,
		},
		{
			name:    "leading characters",
			input:   " 1920x1080+0,0",
			wantErr: true,
		},
		{
			name:    "comma instead of x",
			input:   "1920,1080+0,0",
			wantErr: true,
		},
		{
			name:    "float fields",
			input:   "1920.5x1080+0,0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRect(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRect(%q) expected error, got %+v", tt.input, got)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("ParseRect(%q) error type = %T, want *ParseError", tt.input, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseRect(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRect(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRectRoundTrip(t *testing.T) {
	// Any rectangle printed in canonical form must parse back to itself.
	rects := []Rect{
		{Width: 0, Height: 0, X: 0, Y: 0},
		{Width: 1920, Height: 1080, X: 0, Y: 0},
		{Width: 3840, Height: 1080, X: 1920, Y: 240},
		{Width: 640, Height: 480, X: 12345, Y: 67890},
	}

	for _, r := range rects {
		got, err := ParseRect(r.String())
		if err != nil {
			t.Errorf("ParseRect(%q) unexpected error: %v", r.String(), err)
			continue
		}
		if got != r {
			t.Errorf("round trip %q = %+v, want %+v", r.String(), got, r)
		}
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseRect("bogus")
	if err == nil {
		t.Fatal("expected error")
	}
	// The message must include the format hint so the CLI and the form
	// renderer can surface it directly.
	want := fmt.Sprintf("invalid rectangle %q: must be of format %s (example: 1920x1080+0,0)", "bogus", RectFormat)
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestRectEndCoordinates(t *testing.T) {
	r := Rect{Width: 1920, Height: 1080, X: 0, Y: 0}
	if r.EndX() != 1919 {
		t.Errorf("EndX() = %d, want 1919", r.EndX())
	}
	if r.EndY() != 1079 {
		t.Errorf("EndY() = %d, want 1079", r.EndY())
	}

	offset := Rect{Width: 100, Height: 50, X: 10, Y: 20}
	if offset.EndX() != 109 {
		t.Errorf("EndX() = %d, want 109", offset.EndX())
	}
	if offset.EndY() != 69 {
		t.Errorf("EndY() = %d, want 69", offset.EndY())
	}
}

func TestRectUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{
			name: "side by side monitors",
			a:    Rect{Width: 1920, Height: 1080, X: 0, Y: 0},
			b:    Rect{Width: 1920, Height: 1080, X: 1920, Y: 0},
			want: Rect{Width: 3840, Height: 1080, X: 0, Y: 0},
		},
		{
			name: "stacked monitors",
			a:    Rect{Width: 1920, Height: 1080, X: 0, Y: 0},
			b:    Rect{Width: 1920, Height: 1080, X: 0, Y: 1080},
			want: Rect{Width: 1920, Height: 2160, X: 0, Y: 0},
		},
		{
			name: "mixed sizes with vertical offset",
			a:    Rect{Width: 2560, Height: 1440, X: 0, Y: 0},
			b:    Rect{Width: 1920, Height: 1080, X: 2560, Y: 360},
			want: Rect{Width: 4480, Height: 1440, X: 0, Y: 0},
		},
		{
			name: "contained rectangle",
			a:    Rect{Width: 3840, Height: 2160, X: 0, Y: 0},
			b:    Rect{Width: 100, Height: 100, X: 50, Y: 50},
			want: Rect{Width: 3840, Height: 2160, X: 0, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union = %+v, want %+v", got, tt.want)
			}
			// Union is commutative.
			if got := tt.b.Union(tt.a); got != tt.want {
				t.Errorf("reversed Union = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	if (Rect{Width: 0, Height: 1080}).IsValid() {
		t.Error("zero width should be invalid")
	}
	if (Rect{Width: 1920, Height: 0}).IsValid() {
		t.Error("zero height should be invalid")
	}
	if !(Rect{Width: 1, Height: 1}).IsValid() {
		t.Error("1x1 should be valid")
	}
}
