package rules

import (
	"fmt"
)

// Fixed wall thickness policy, all in centimeters.
const (
	wallMinTwoExternal = 25.0 // two or more evidenced external walls
	wallMinDefault     = 30.0 // one external wall, or count unevidenced
	wallMinParapet     = 25.0
	wallMinReveal      = 25.0
	wallMinLoadBearing = 24.0
	wallMinWithWindow  = 36.5
)

// derivedExternalWallCount is the label the cross-segment inference
// step attaches its external wall count under.
const derivedExternalWallCount = "external_wall_count"

// WallThicknessValidator checks the wall thickness family of rules for
// a wall-section segment. Without a parseable thickness measurement it
// abstains entirely.
func WallThicknessValidator() Validator {
	return Validator{
		Name: "wall_thickness",
		Rules: []string{
			RuleWallThicknessStandard,
			RuleWallThicknessParapet,
			RuleWallThicknessReveal,
			RuleWallThicknessBearing,
			RuleWallThicknessWindow,
		},
		Fn: checkWallThickness,
	}
}

func checkWallThickness(in Input) Outcome {
	var out Outcome

	dim, found := FindDimension(in.Evidence, "thickness")
	if found {
		cm, ok := ToCentimeters(dim.Value, dim.Unit)
		if ok {
			out = evaluateStandardThickness(in, cm, out)

			if HasStructural(in.Evidence, "window") || HasContext(in.Evidence, "window opening") {
				out.EvaluatedRules = append(out.EvaluatedRules, RuleWallThicknessWindow)
				if cm < wallMinWithWindow {
					out.Violations = append(out.Violations, violation(RuleWallThicknessWindow,
						fmt.Sprintf(">= %.1f cm", wallMinWithWindow), fmt.Sprintf("%.1f cm", cm)))
				}
			}

			if HasStructural(in.Evidence, "load") || HasContext(in.Evidence, "load-bearing", "load bearing") {
				out.EvaluatedRules = append(out.EvaluatedRules, RuleWallThicknessBearing)
				if cm < wallMinLoadBearing {
					out.Violations = append(out.Violations, violation(RuleWallThicknessBearing,
						fmt.Sprintf(">= %.1f cm", wallMinLoadBearing), fmt.Sprintf("%.1f cm", cm)))
				}
			}
		}
	}

	if dim, ok := FindDimension(in.Evidence, "parapet"); ok {
		if cm, ok := ToCentimeters(dim.Value, dim.Unit); ok {
			out.EvaluatedRules = append(out.EvaluatedRules, RuleWallThicknessParapet)
			if cm < wallMinParapet {
				out.Violations = append(out.Violations, violation(RuleWallThicknessParapet,
					fmt.Sprintf(">= %.1f cm", wallMinParapet), fmt.Sprintf("%.1f cm", cm)))
			}
		}
	}

	if dim, ok := FindDimension(in.Evidence, "reveal"); ok {
		if cm, ok := ToCentimeters(dim.Value, dim.Unit); ok {
			out.EvaluatedRules = append(out.EvaluatedRules, RuleWallThicknessReveal)
			if cm < wallMinReveal {
				out.Violations = append(out.Violations, violation(RuleWallThicknessReveal,
					fmt.Sprintf(">= %.1f cm", wallMinReveal), fmt.Sprintf("%.1f cm", cm)))
			}
		}
	}

	return out
}

// evaluateStandardThickness applies the external-wall-count dependent
// minimum. When the count is unevidenced the rule only decides the
// unambiguous bands: below the most lenient minimum fails, at or above
// the strictest minimum passes, and anything between is an abstention.
func evaluateStandardThickness(in Input, cm float64, out Outcome) Outcome {
	min := 0.0
	if count, ok := FindDerived(in.Evidence, derivedExternalWallCount); ok {
		if count.Value >= 2 {
			min = wallMinTwoExternal
		} else {
			min = wallMinDefault
		}
	} else {
		switch {
		case cm < wallMinTwoExternal:
			min = wallMinTwoExternal
		case cm >= wallMinDefault:
			min = wallMinTwoExternal // passes either way
		default:
			return out // cannot decide without the count
		}
	}

	out.EvaluatedRules = append(out.EvaluatedRules, RuleWallThicknessStandard)
	if cm < min {
		out.Violations = append(out.Violations, violation(RuleWallThicknessStandard,
			fmt.Sprintf(">= %.1f cm", min), fmt.Sprintf("%.1f cm", cm)))
	}
	return out
}
