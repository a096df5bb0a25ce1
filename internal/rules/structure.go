package rules

import (
	"fmt"
)

const slabThicknessMinCM = 16.0

// LintelValidator checks that evidenced openings in load-bearing walls
// carry a lintel. With no opening evidenced there is nothing to check.
func LintelValidator() Validator {
	return Validator{
		Name:  "lintel",
		Rules: []string{RuleLintelPresence},
		Fn:    checkLintel,
	}
}

func checkLintel(in Input) Outcome {
	var out Outcome

	if !HasStructural(in.Evidence, "opening") {
		return out
	}

	out.EvaluatedRules = append(out.EvaluatedRules, RuleLintelPresence)
	if !HasStructural(in.Evidence, "lintel") {
		out.Violations = append(out.Violations, violation(RuleLintelPresence,
			"lintel above opening", "no lintel evidenced"))
	}
	return out
}

// SlabThicknessValidator checks floor slab thickness
func SlabThicknessValidator() Validator {
	return Validator{
		Name:  "slab_thickness",
		Rules: []string{RuleSlabThickness},
		Fn:    checkSlabThickness,
	}
}

func checkSlabThickness(in Input) Outcome {
	var out Outcome

	dim, ok := FindDimension(in.Evidence, "slab")
	if !ok {
		return out
	}
	cm, ok := ToCentimeters(dim.Value, dim.Unit)
	if !ok {
		return out
	}

	out.EvaluatedRules = append(out.EvaluatedRules, RuleSlabThickness)
	if cm < slabThicknessMinCM {
		out.Violations = append(out.Violations, violation(RuleSlabThickness,
			fmt.Sprintf(">= %.0f cm", slabThicknessMinCM), fmt.Sprintf("%.1f cm", cm)))
	}
	return out
}
