package spread

import (
	"fmt"
	"strings"

	"github.com/teslashibe/go-speakviz/pkg/metrics"
)

// Text renders the report as the plain-text analysis blob attached to
// feedback uploads.
func (r Report) Text() string {
	var b strings.Builder
	b.WriteString("=== HEAD ORIENTATION SPREAD ANALYSIS ===\n")
	fmt.Fprintf(&b, "Yaw Spread: %.3f (%s)\n", r.Yaw.Spread, level(r.Yaw.High))
	fmt.Fprintf(&b, "Pitch Spread: %.3f (%s)\n", r.Pitch.Spread, level(r.Pitch.High))
	fmt.Fprintf(&b, "Yaw Range: %.2f to %.2f\n", r.Yaw.Min, r.Yaw.Max)
	fmt.Fprintf(&b, "Pitch Range: %.2f to %.2f\n", r.Pitch.Min, r.Pitch.Max)
	fmt.Fprintf(&b, "Eye Contact Segments: %d total (%d good, %d poor)\n",
		len(r.Segments), r.GoodSegments, r.BadSegments)
	fmt.Fprintf(&b, "Classification: %s\n", r.Classification)
	fmt.Fprintf(&b, "Explanation: %s\n", r.Explanation)
	if verdict, ok := EyeContactVerdict(r.EyeContactFrames, r.TotalFrames); ok {
		ratio, _ := metrics.Ratio(r.EyeContactFrames, r.TotalFrames)
		fmt.Fprintf(&b, "Eye Contact: %d/%d frames (%.0f%%) %s\n",
			r.EyeContactFrames, r.TotalFrames, ratio*100, verdict)
	}
	return b.String()
}

func level(high bool) string {
	if high {
		return "HIGH"
	}
	return "normal"
}
