// Package sampleid derives the human-readable sample identifier and tube
// color used for physical chain-of-custody tracking. Assignment is a pure
// function of the calendar date and the per-day sequence number, so any
// order can be re-derived for audit.
package sampleid

import (
	"fmt"
	"time"
)

// Color is one entry of the rotating tube-label palette.
type Color struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Identity is the assigned sample ID and color pair.
type Identity struct {
	SampleID  string `json:"sample_id"`
	ColorCode string `json:"color_code"`
	ColorName string `json:"color_name"`
}

// palette is the fixed 12-entry rotation. Sequence 1 maps to Red, 13 wraps
// back to Red. The hues are chosen to stay distinguishable on printed labels.
var palette = [12]Color{
	{"#EF4444", "Red"},
	{"#3B82F6", "Blue"},
	{"#10B981", "Green"},
	{"#F59E0B", "Orange"},
	{"#8B5CF6", "Purple"},
	{"#06B6D4", "Cyan"},
	{"#EC4899", "Pink"},
	{"#84CC16", "Lime"},
	{"#F97316", "Amber"},
	{"#6366F1", "Indigo"},
	{"#14B8A6", "Teal"},
	{"#A855F7", "Violet"},
}

// Palette returns the full color rotation in sequence order.
func Palette() []Color {
	return palette[:]
}

// Assign derives the sample identity for the dailySequence-th order of the
// given calendar day. dailySequence starts at 1; the caller owns sequence
// generation (typically a count of the day's orders plus one).
func Assign(date time.Time, dailySequence int) Identity {
	if dailySequence < 1 {
		dailySequence = 1
	}
	c := palette[(dailySequence-1)%len(palette)]
	return Identity{
		SampleID:  fmt.Sprintf("%s-%03d", date.Format("02-Jan-2006"), dailySequence),
		ColorCode: c.Code,
		ColorName: c.Name,
	}
}
