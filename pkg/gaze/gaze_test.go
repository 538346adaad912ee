package gaze

import (
	"testing"

	"github.com/teslashibe/go-speakviz/pkg/face"
	"github.com/teslashibe/go-speakviz/pkg/geometry"
)

// eyesAt builds 5-point style landmarks with both eyes at the given
// box-normalized position inside box.
func eyesAt(box geometry.Box, nx, ny float64) *face.Landmarks {
	p := geometry.Point{X: box.X + nx*box.Width, Y: box.Y + ny*box.Height}
	return &face.Landmarks{
		LeftEye:  []geometry.Point{p},
		RightEye: []geometry.Point{p},
		Nose:     []geometry.Point{box.Center()},
	}
}

func TestFromLandmarks(t *testing.T) {
	box := geometry.Box{X: 100, Y: 100, Width: 200, Height: 200}

	tests := []struct {
		name   string
		nx, ny float64
		want   Direction
	}{
		{"centered", 0.5, 0.4, Straight},
		{"high pupil", 0.5, 0.2, Up},
		{"up wins over sideways", 0.1, 0.1, Up},
		{"low x looks right", 0.3, 0.4, Right},
		{"high x looks left", 0.7, 0.4, Left},
		{"right boundary is straight", 0.38, 0.4, Straight},
		{"left boundary is straight", 0.62, 0.4, Straight},
		{"up boundary is not up", 0.5, 0.30, Straight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromLandmarks(eyesAt(box, tt.nx, tt.ny), box)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromLandmarks_SixPointEyes(t *testing.T) {
	box := geometry.Box{X: 0, Y: 0, Width: 100, Height: 100}
	// Corners at 0 and 3; the others must be ignored.
	lm := &face.Landmarks{
		LeftEye:  []geometry.Point{{X: 30, Y: 40}, {X: 0, Y: 0}, {X: 0, Y: 0}, {X: 40, Y: 40}, {X: 0, Y: 0}, {X: 0, Y: 0}},
		RightEye: []geometry.Point{{X: 60, Y: 40}, {X: 99, Y: 99}, {X: 99, Y: 99}, {X: 70, Y: 40}, {X: 99, Y: 99}, {X: 99, Y: 99}},
		Nose:     []geometry.Point{{X: 50, Y: 60}},
	}

	pupil, ok := Pupil(lm)
	if !ok {
		t.Fatal("expected pupil")
	}
	if pupil.X != 50 || pupil.Y != 40 {
		t.Errorf("pupil: got %v, want {50 40}", pupil)
	}
	if got := FromLandmarks(lm, box); got != Straight {
		t.Errorf("direction: got %v, want STRAIGHT", got)
	}
}

func TestFromLandmarks_Degenerate(t *testing.T) {
	lm := eyesAt(geometry.Box{Width: 100, Height: 100}, 0.1, 0.1)

	if got := FromLandmarks(lm, geometry.Box{Width: 0, Height: 100}); got != Straight {
		t.Errorf("zero-width box: got %v, want STRAIGHT", got)
	}
	if got := FromLandmarks(nil, geometry.Box{Width: 100, Height: 100}); got != Straight {
		t.Errorf("nil landmarks: got %v, want STRAIGHT", got)
	}
}

func TestEyeContact(t *testing.T) {
	tests := []struct {
		name string
		dir  Direction
		yaw  float64
		want bool
	}{
		{"straight and frontal", Straight, 0.0, true},
		{"straight small negative yaw", Straight, -0.29, true},
		{"yaw at threshold", Straight, 0.30, false},
		{"yaw beyond threshold", Straight, -0.5, false},
		{"looking up", Up, 0.0, false},
		{"looking left", Left, 0.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EyeContact(tt.dir, tt.yaw); got != tt.want {
				t.Errorf("EyeContact(%v, %v) = %v, want %v", tt.dir, tt.yaw, got, tt.want)
			}
		})
	}
}

func TestFromGestures(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   bool
	}{
		{"both center tags", []string{"looking center", "facing center"}, true},
		{"extra tags still count", []string{"blink left eye", "facing center", "looking center"}, true},
		{"only looking", []string{"looking center", "facing left"}, false},
		{"only facing", []string{"facing center", "looking up"}, false},
		{"none", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromGestures(face.ParseGestures(tt.labels)); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirection_String(t *testing.T) {
	want := map[Direction]string{Straight: "STRAIGHT", Up: "UP", Left: "LEFT", Right: "RIGHT"}
	for d, s := range want {
		if d.String() != s {
			t.Errorf("%d: got %q, want %q", d, d.String(), s)
		}
	}
}
