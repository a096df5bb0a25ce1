package rules

import (
	"fmt"

	"plancheck/internal/model"
)

// Fixed room height policy, in meters.
const (
	roomHeightMin          = 2.50
	roomHeightExceptionMin = 2.20
	roomVolumeExceptionMin = 22.5 // m3
)

var exceptionContextKeywords = []string{"basement", "cellar", "addition", "attic conversion"}

// RoomHeightValidator checks clear room height against the strict
// minimum and the basement/addition exception. Height requirements can
// only be read off a vertical section; for any other view the
// validator abstains regardless of what the evidence claims.
func RoomHeightValidator() Validator {
	return Validator{
		Name:  "room_height",
		Rules: []string{RuleRoomHeightMinimum, RuleRoomHeightException},
		Fn:    checkRoomHeight,
	}
}

func checkRoomHeight(in Input) Outcome {
	var out Outcome

	if in.ViewType != model.ViewSection {
		return out
	}

	dim, ok := FindDimension(in.Evidence, "height")
	if !ok {
		return out
	}
	height, ok := ToMeters(dim.Value, dim.Unit)
	if !ok {
		return out
	}

	hasContext := HasContext(in.Evidence, exceptionContextKeywords...)
	volume, hasVolume := VolumeM3(in.Evidence)

	// The exception applies only when both signals are independently
	// evidenced; absence of either means the strict threshold governs.
	exceptionApplies := hasContext && hasVolume && volume >= roomVolumeExceptionMin

	out.EvaluatedRules = append(out.EvaluatedRules, RuleRoomHeightMinimum)
	if height < roomHeightMin {
		if !exceptionApplies || height < roomHeightExceptionMin {
			out.Violations = append(out.Violations, violation(RuleRoomHeightMinimum,
				fmt.Sprintf(">= %.2f m", roomHeightMin), fmt.Sprintf("%.2f m", height)))
		}
	}

	// The exception rule itself is only evaluable once the context
	// signal is present; without it the requirement stays not_checked.
	if hasContext {
		if !hasVolume {
			return out
		}
		out.EvaluatedRules = append(out.EvaluatedRules, RuleRoomHeightException)
		if height < roomHeightExceptionMin || volume < roomVolumeExceptionMin {
			out.Violations = append(out.Violations, violation(RuleRoomHeightException,
				fmt.Sprintf(">= %.2f m and >= %.1f m3", roomHeightExceptionMin, roomVolumeExceptionMin),
				fmt.Sprintf("%.2f m at %.1f m3", height, volume)))
		}
	}

	return out
}
