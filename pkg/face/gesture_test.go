package face

import (
	"testing"
)

func TestParseGestureTag(t *testing.T) {
	tests := []struct {
		label  string
		want   GestureTag
		wantOK bool
	}{
		{"looking center", LookingCenter, true},
		{"facing center", FacingCenter, true},
		{"  Looking Left ", LookingLeft, true},
		{"mouth open", MouthOpen, true},
		{"mouth 35% open", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseGestureTag(tt.label)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseGestureTag(%q) = %v, %v; want %v, %v", tt.label, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGestureSet(t *testing.T) {
	s := ParseGestures([]string{"looking center", "facing center", "blink left eye", "waving"})

	if s.Len() != 3 {
		t.Errorf("Len: got %d, want 3", s.Len())
	}
	if !s.Has(LookingCenter) || !s.Has(FacingCenter) || !s.Has(BlinkLeftEye) {
		t.Errorf("missing expected tags in %v", s.Tags())
	}
	if s.Has(LookingLeft) {
		t.Error("unexpected looking left")
	}

	tags := s.Tags()
	want := []GestureTag{LookingCenter, FacingCenter, BlinkLeftEye}
	if len(tags) != len(want) {
		t.Fatalf("Tags: got %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("Tags[%d]: got %v, want %v", i, tags[i], want[i])
		}
	}

	var empty GestureSet
	if empty.Len() != 0 || len(empty.Tags()) != 0 {
		t.Error("empty set should have no tags")
	}
}

func TestGestureSet_JSONUsesDetectorLabels(t *testing.T) {
	s := GestureSet(0).Add(FacingCenter).Add(LookingCenter)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["looking center","facing center"]` {
		t.Errorf("Marshal: got %s", data)
	}

	var det Detection
	if err := json.Unmarshal([]byte(`{"box":{"x":0,"y":0,"width":10,"height":10},"gestures":["facing center","looking center","unknown tag"]}`), &det); err != nil {
		t.Fatal(err)
	}
	if det.Gestures != s {
		t.Errorf("Unmarshal: got %v, want %v", det.Gestures.Tags(), s.Tags())
	}
}
