package spread

// Classification is the engagement pattern inferred from head movement and
// eye-contact segments.
type Classification string

// Engagement classifications, in rule priority order.
const (
	DeliberateEngagement Classification = "Deliberate Audience Engagement"
	LikelyDistraction    Classification = "Likely Distraction"
	FocusedCommunication Classification = "Focused Direct Communication"
	PoorEngagement       Classification = "Poor Engagement"
)

var explanations = map[Classification]string{
	DeliberateEngagement: "High head movement with good eye contact suggests intentional inclusion of multiple participants",
	LikelyDistraction:    "High head movement without sustained eye contact suggests distraction or lack of focus",
	FocusedCommunication: "Low head movement with good eye contact indicates focused, direct communication",
	PoorEngagement:       "Low head movement and poor eye contact suggests disengagement",
}

// Explanation returns the human-readable reason for the classification.
func (c Classification) Explanation() string {
	return explanations[c]
}

// String implements fmt.Stringer.
func (c Classification) String() string {
	return string(c)
}

// Classify applies the engagement rule. Only the yaw spread participates;
// pitch spread is informational.
func Classify(yawSpread float64, hasGoodSegment bool) Classification {
	highYaw := yawSpread > HighYawSpread
	switch {
	case highYaw && hasGoodSegment:
		return DeliberateEngagement
	case highYaw:
		return LikelyDistraction
	case hasGoodSegment:
		return FocusedCommunication
	default:
		return PoorEngagement
	}
}
