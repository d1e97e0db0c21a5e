package packing

import (
	"fmt"
	"strconv"

	"github.com/tripwise/packmate/client"
)

// Label is the short verdict shown next to a confirmed item.
type Label string

const (
	LabelPack       Label = "PACK"
	LabelLeave      Label = "LEAVE"
	LabelReconsider Label = "RECONSIDER"
)

// Default bag limits used when configuration does not override them.
const (
	DefaultWeightLimitKg  = 20.0
	DefaultVolumeLimitCm3 = 40000.0
	nearLimitRatio        = 0.8
)

// RecommendationLabel maps a confirmed item's verdict to its label.
// Placeholders and unknown verdicts have none.
func RecommendationLabel(it Item) (Label, bool) {
	switch it.Kind {
	case KindConfirmed:
		switch it.Confirmed.PackingRecommendation {
		case client.RecommendPack:
			return LabelPack, true
		case client.RecommendRemove:
			return LabelLeave, true
		case client.RecommendSwap:
			return LabelReconsider, true
		}
	case KindPlaceholder:
	}
	return "", false
}

// Toggleable reports whether the row's checkbox is enabled.
func Toggleable(it Item) bool {
	switch it.Kind {
	case KindConfirmed:
		return it.Confirmed.ItemID != ""
	case KindPlaceholder:
		return false
	}
	return false
}

// PillKind selects the measured quantity of a Pill.
type PillKind string

const (
	PillWeight PillKind = "weight"
	PillVolume PillKind = "volume"
)

// Level grades a bag total against its limit.
type Level int

const (
	LevelEmpty Level = iota
	LevelOK
	LevelNear
	LevelOver
)

func (l Level) String() string {
	switch l {
	case LevelEmpty:
		return "empty"
	case LevelOK:
		return "ok"
	case LevelNear:
		return "near"
	case LevelOver:
		return "over"
	}
	return "unknown"
}

// Pill is a rendered bag total.
type Pill struct {
	Kind  PillKind
	Value float64
	Limit float64
	Level Level
	Text  string
}

// WeightPill grades a server-reported weight total in kg. A limit <= 0
// disables the near/over grading.
func WeightPill(value, limit float64) Pill {
	return Pill{
		Kind:  PillWeight,
		Value: value,
		Limit: limit,
		Level: grade(value, limit),
		Text:  fmt.Sprintf("Weight: %.2f kg", value),
	}
}

// VolumePill grades a server-reported volume total in cm3.
func VolumePill(value, limit float64) Pill {
	return Pill{
		Kind:  PillVolume,
		Value: value,
		Limit: limit,
		Level: grade(value, limit),
		Text:  fmt.Sprintf("Volume: %.2f cm3", value),
	}
}

func grade(value, limit float64) Level {
	switch {
	case value <= 0:
		return LevelEmpty
	case limit <= 0:
		return LevelOK
	case value > limit:
		return LevelOver
	case value >= limit*nearLimitRatio:
		return LevelNear
	default:
		return LevelOK
	}
}

// DetailLines are the extra lines of an expanded row.
func DetailLines(it Item) []string {
	var lines []string
	switch it.Kind {
	case KindPlaceholder:
		if it.Placeholder.Reason != "" {
			lines = append(lines, it.Placeholder.Reason)
		}
	case KindConfirmed:
		if it.Confirmed.WeightKg != nil {
			lines = append(lines, fmt.Sprintf("Weight: %.2f kg", *it.Confirmed.WeightKg))
		}
		if it.Confirmed.EstimatedVolumeCm3 != nil {
			lines = append(lines, fmt.Sprintf("Volume: %.2f cm3", *it.Confirmed.EstimatedVolumeCm3))
		}
	}
	return lines
}

// DetectionCaption labels a detection box as "class (confidence)".
func DetectionCaption(cv client.CVResult) string {
	name := cv.ClassName
	if name == "" {
		name = cv.ItemName
	}
	return name + " (" + strconv.FormatFloat(cv.ConfidenceScore, 'f', -1, 64) + ")"
}
