package face

import (
	"testing"

	"github.com/teslashibe/go-speakviz/pkg/geometry"
)

func TestLandmarks_EyeCorners(t *testing.T) {
	sixPoint := []geometry.Point{{X: 10, Y: 1}, {X: 11, Y: 0}, {X: 12, Y: 0}, {X: 14, Y: 1}, {X: 12, Y: 2}, {X: 11, Y: 2}}

	tests := []struct {
		name     string
		eye      []geometry.Point
		wantA    geometry.Point
		wantB    geometry.Point
		expectOK bool
	}{
		{
			name:     "68-point eye uses indices 0 and 3",
			eye:      sixPoint,
			wantA:    geometry.Point{X: 10, Y: 1},
			wantB:    geometry.Point{X: 14, Y: 1},
			expectOK: true,
		},
		{
			name:     "5-point eye repeats the single point",
			eye:      []geometry.Point{{X: 7, Y: 8}},
			wantA:    geometry.Point{X: 7, Y: 8},
			wantB:    geometry.Point{X: 7, Y: 8},
			expectOK: true,
		},
		{
			name:     "missing eye",
			eye:      nil,
			expectOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lm := &Landmarks{LeftEye: tc.eye, RightEye: tc.eye}
			a, b, ok := lm.LeftEyeCorners()
			if ok != tc.expectOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.expectOK)
			}
			if !ok {
				return
			}
			if a != tc.wantA || b != tc.wantB {
				t.Errorf("corners: got %v %v, want %v %v", a, b, tc.wantA, tc.wantB)
			}
			ra, rb, _ := lm.RightEyeCorners()
			if ra != a || rb != b {
				t.Errorf("right eye corners differ from identical left eye")
			}
		})
	}
}

func TestLandmarks_NoseTipAndComplete(t *testing.T) {
	var nilLM *Landmarks
	if _, ok := nilLM.NoseTip(); ok {
		t.Error("nil landmarks should have no nose tip")
	}
	if nilLM.Complete() {
		t.Error("nil landmarks should not be complete")
	}

	lm := &Landmarks{
		LeftEye:  []geometry.Point{{X: 1, Y: 1}},
		RightEye: []geometry.Point{{X: 3, Y: 1}},
		Nose:     []geometry.Point{{X: 2, Y: 3}, {X: 2, Y: 4}},
	}
	tip, ok := lm.NoseTip()
	if !ok || tip != (geometry.Point{X: 2, Y: 3}) {
		t.Errorf("NoseTip: got %v %v", tip, ok)
	}
	if !lm.Complete() {
		t.Error("expected complete landmarks")
	}

	lm.Nose = nil
	if lm.Complete() {
		t.Error("landmarks without nose should not be complete")
	}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name       string
		detections []Detection
		expectNil  bool
		expectIdx  int
	}{
		{
			name:       "empty list",
			detections: []Detection{},
			expectNil:  true,
		},
		{
			name: "single detection",
			detections: []Detection{
				{Box: geometry.Box{X: 40, Y: 40, Width: 20, Height: 20}, Score: 0.9},
			},
			expectIdx: 0,
		},
		{
			name: "high confidence beats larger area",
			detections: []Detection{
				{Box: geometry.Box{Width: 40, Height: 40}, Score: 0.5},
				{Box: geometry.Box{X: 30, Y: 30, Width: 20, Height: 20}, Score: 0.95},
			},
			expectIdx: 1, // 0.95*0.7 + 0.25*0.3 = 0.74 vs 0.5*0.7 + 1.0*0.3 = 0.65
		},
		{
			name: "similar confidence picks larger",
			detections: []Detection{
				{Box: geometry.Box{Width: 50, Height: 50}, Score: 0.8},
				{Box: geometry.Box{X: 30, Y: 30, Width: 10, Height: 10}, Score: 0.8},
			},
			expectIdx: 0,
		},
		{
			name: "zero-area boxes do not divide by zero",
			detections: []Detection{
				{Score: 0.3},
				{Score: 0.6},
			},
			expectIdx: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			best := SelectBest(tc.detections)
			if tc.expectNil {
				if best != nil {
					t.Errorf("expected nil, got %+v", best)
				}
				return
			}
			if best != &tc.detections[tc.expectIdx] {
				t.Errorf("expected detection %d, got %+v", tc.expectIdx, best)
			}
		})
	}
}
