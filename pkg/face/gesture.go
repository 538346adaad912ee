package face

import (
	"math/bits"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GestureTag is one of the gesture labels a gesture-capable detector emits.
type GestureTag uint16

// Known gesture tags.
const (
	LookingCenter GestureTag = 1 << iota
	LookingLeft
	LookingRight
	LookingUp
	LookingDown
	FacingCenter
	FacingLeft
	FacingRight
	HeadUp
	HeadDown
	BlinkLeftEye
	BlinkRightEye
	MouthOpen
)

var gestureNames = map[GestureTag]string{
	LookingCenter: "looking center",
	LookingLeft:   "looking left",
	LookingRight:  "looking right",
	LookingUp:     "looking up",
	LookingDown:   "looking down",
	FacingCenter:  "facing center",
	FacingLeft:    "facing left",
	FacingRight:   "facing right",
	HeadUp:        "head up",
	HeadDown:      "head down",
	BlinkLeftEye:  "blink left eye",
	BlinkRightEye: "blink right eye",
	MouthOpen:     "mouth open",
}

var gestureByName = func() map[string]GestureTag {
	m := make(map[string]GestureTag, len(gestureNames))
	for tag, name := range gestureNames {
		m[name] = tag
	}
	return m
}()

// String returns the detector's label for the tag.
func (g GestureTag) String() string {
	if name, ok := gestureNames[g]; ok {
		return name
	}
	return "unknown"
}

// ParseGestureTag maps a detector label to a tag. Labels are matched
// case-insensitively. Some detectors append a qualifier ("mouth 35% open"),
// so only exact known labels are accepted.
func ParseGestureTag(s string) (GestureTag, bool) {
	tag, ok := gestureByName[strings.ToLower(strings.TrimSpace(s))]
	return tag, ok
}

// GestureSet is the set of tags present in one frame.
type GestureSet uint16

// ParseGestures builds a set from detector labels, ignoring unknown ones.
func ParseGestures(labels []string) GestureSet {
	var s GestureSet
	for _, l := range labels {
		if tag, ok := ParseGestureTag(l); ok {
			s = s.Add(tag)
		}
	}
	return s
}

// Add returns the set with tag included.
func (s GestureSet) Add(tag GestureTag) GestureSet {
	return s | GestureSet(tag)
}

// Has reports whether tag is in the set.
func (s GestureSet) Has(tag GestureTag) bool {
	return s&GestureSet(tag) != 0
}

// Len returns the number of tags in the set.
func (s GestureSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// Tags returns the tags in ascending bit order.
func (s GestureSet) Tags() []GestureTag {
	tags := make([]GestureTag, 0, s.Len())
	for bit := GestureTag(1); bit != 0 && bit <= MouthOpen; bit <<= 1 {
		if s.Has(bit) {
			tags = append(tags, bit)
		}
	}
	return tags
}

// MarshalJSON encodes the set as the list of detector labels.
func (s GestureSet) MarshalJSON() ([]byte, error) {
	tags := s.Tags()
	labels := make([]string, len(tags))
	for i, t := range tags {
		labels[i] = t.String()
	}
	return json.Marshal(labels)
}

// UnmarshalJSON decodes a list of detector labels.
func (s *GestureSet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	*s = ParseGestures(labels)
	return nil
}
