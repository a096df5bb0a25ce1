package rules

import (
	"fmt"
)

// Fixed opening policy.
const (
	doorWidthMinCM       = 80.0
	doorWidthEscapeMinCM = 90.0
	windowLightShare     = 1.0 / 8.0
	windowVentShare      = 1.0 / 20.0
)

// DoorWidthValidator checks door clear widths. The escape-route rule
// is only evaluated when the segment evidences an escape route at all.
func DoorWidthValidator() Validator {
	return Validator{
		Name:  "door_width",
		Rules: []string{RuleDoorWidthClear, RuleDoorWidthEscape},
		Fn:    checkDoorWidth,
	}
}

func checkDoorWidth(in Input) Outcome {
	var out Outcome

	dim, ok := FindDimension(in.Evidence, "door width", "clear width")
	if !ok {
		return out
	}
	cm, ok := ToCentimeters(dim.Value, dim.Unit)
	if !ok {
		return out
	}

	out.EvaluatedRules = append(out.EvaluatedRules, RuleDoorWidthClear)
	if cm < doorWidthMinCM {
		out.Violations = append(out.Violations, violation(RuleDoorWidthClear,
			fmt.Sprintf(">= %.0f cm", doorWidthMinCM), fmt.Sprintf("%.1f cm", cm)))
	}

	if HasStructural(in.Evidence, "escape") || HasContext(in.Evidence, "escape route", "emergency exit") {
		out.EvaluatedRules = append(out.EvaluatedRules, RuleDoorWidthEscape)
		if cm < doorWidthEscapeMinCM {
			out.Violations = append(out.Violations, violation(RuleDoorWidthEscape,
				fmt.Sprintf(">= %.0f cm", doorWidthEscapeMinCM), fmt.Sprintf("%.1f cm", cm)))
		}
	}

	return out
}

// WindowAreaValidator checks light and ventilation area shares. Both
// rules need the room floor area alongside the window measurement;
// either missing means the rule abstains.
func WindowAreaValidator() Validator {
	return Validator{
		Name:  "window_area",
		Rules: []string{RuleWindowAreaLight, RuleWindowAreaVent},
		Fn:    checkWindowArea,
	}
}

func checkWindowArea(in Input) Outcome {
	var out Outcome

	floor, ok := AreaM2(in.Evidence, "floor")
	if !ok || floor <= 0 {
		return out
	}

	if light, ok := AreaM2(in.Evidence, "window", "light"); ok {
		out.EvaluatedRules = append(out.EvaluatedRules, RuleWindowAreaLight)
		required := floor * windowLightShare
		if light < required {
			out.Violations = append(out.Violations, violation(RuleWindowAreaLight,
				fmt.Sprintf(">= %.2f m2 (1/8 of %.2f m2)", required, floor),
				fmt.Sprintf("%.2f m2", light)))
		}
	}

	if vent, ok := AreaM2(in.Evidence, "vent"); ok {
		out.EvaluatedRules = append(out.EvaluatedRules, RuleWindowAreaVent)
		required := floor * windowVentShare
		if vent < required {
			out.Violations = append(out.Violations, violation(RuleWindowAreaVent,
				fmt.Sprintf(">= %.2f m2 (1/20 of %.2f m2)", required, floor),
				fmt.Sprintf("%.2f m2", vent)))
		}
	}

	return out
}
