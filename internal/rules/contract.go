package rules

import (
	"strings"

	"plancheck/internal/model"
)

// Minimum-evidence helpers. Every validator goes through these before
// deciding anything; if the required element is missing the validator
// abstains and the requirement stays not_checked. There is no default
// direction for absent evidence.

// ToCentimeters normalizes a length measurement to centimeters
func ToCentimeters(value float64, unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "mm":
		return value / 10, true
	case "cm":
		return value, true
	case "m":
		return value * 100, true
	default:
		return 0, false
	}
}

// ToMeters normalizes a length measurement to meters
func ToMeters(value float64, unit string) (float64, bool) {
	cm, ok := ToCentimeters(value, unit)
	if !ok {
		return 0, false
	}
	return cm / 100, true
}

// FindDimension returns the first dimension item whose label contains
// any of the given fragments (case-insensitive)
func FindDimension(evidence []model.EvidenceItem, fragments ...string) (model.EvidenceItem, bool) {
	for _, item := range evidence {
		if item.Type != model.EvidenceDimension {
			continue
		}
		label := strings.ToLower(item.Label)
		for _, f := range fragments {
			if strings.Contains(label, f) {
				return item, true
			}
		}
	}
	return model.EvidenceItem{}, false
}

// FindDerived returns a derived evidence item by exact label
func FindDerived(evidence []model.EvidenceItem, label string) (model.EvidenceItem, bool) {
	for _, item := range evidence {
		if item.Type == model.EvidenceDerived && item.Label == label {
			return item, true
		}
	}
	return model.EvidenceItem{}, false
}

// HasStructural reports whether a structural element with the given
// name fragment was evidenced
func HasStructural(evidence []model.EvidenceItem, fragment string) bool {
	for _, item := range evidence {
		if item.Type != model.EvidenceStructural {
			continue
		}
		if strings.Contains(strings.ToLower(item.Label), fragment) {
			return true
		}
	}
	return false
}

// HasContext reports whether any text evidence mentions one of the
// given keywords (case-insensitive)
func HasContext(evidence []model.EvidenceItem, keywords ...string) bool {
	for _, item := range evidence {
		if item.Type != model.EvidenceText {
			continue
		}
		text := strings.ToLower(item.Text)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}

// AreaM2 finds an area measurement (square meters) by label fragment
func AreaM2(evidence []model.EvidenceItem, fragments ...string) (float64, bool) {
	for _, item := range evidence {
		if item.Type != model.EvidenceDimension {
			continue
		}
		unit := strings.ToLower(strings.TrimSpace(item.Unit))
		if unit != "m2" && unit != "m²" {
			continue
		}
		label := strings.ToLower(item.Label)
		for _, f := range fragments {
			if strings.Contains(label, f) {
				return item.Value, true
			}
		}
	}
	return 0, false
}

// VolumeM3 resolves a room volume in cubic meters: a direct volume
// measurement wins; otherwise it is computed when length, width and
// height are all evidenced. Anything less is insufficient evidence.
func VolumeM3(evidence []model.EvidenceItem) (float64, bool) {
	for _, item := range evidence {
		if item.Type != model.EvidenceDimension {
			continue
		}
		unit := strings.ToLower(strings.TrimSpace(item.Unit))
		if (unit == "m3" || unit == "m³") && strings.Contains(strings.ToLower(item.Label), "volume") {
			return item.Value, true
		}
	}

	length, lok := FindDimension(evidence, "length")
	width, wok := FindDimension(evidence, "width")
	height, hok := FindDimension(evidence, "height")
	if !lok || !wok || !hok {
		return 0, false
	}
	l, ok1 := ToMeters(length.Value, length.Unit)
	w, ok2 := ToMeters(width.Value, width.Unit)
	h, ok3 := ToMeters(height.Value, height.Unit)
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	return l * w * h, true
}
