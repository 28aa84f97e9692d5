// Package labflag classifies measured lab values against free-text reference
// range expressions. Real reference ranges arrive in inconsistent legacy
// formats ("<5", "> 40", "10-40", "M: 13.2-16.6, F: 11.6-15"), so the parser
// degrades to an undetermined flag rather than rejecting input; the workflow
// must never block on malformed reference text.
package labflag

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/openlims/lims/internal/workflow"
)

// Flag is the abnormality classification of a single value.
type Flag string

const (
	FlagNone Flag = ""
	FlagHigh Flag = "H"
	FlagLow  Flag = "L"
	// FlagCritical is reserved for low/high-critical threshold comparison.
	// Current classification never produces it.
	FlagCritical Flag = "C"
)

// Abnormal reports whether f marks a value outside its reference range.
func (f Flag) Abnormal() bool {
	return f == FlagHigh || f == FlagLow || f == FlagCritical
}

// RangeKind tags the parsed form of a reference range expression.
type RangeKind int

const (
	Unparseable RangeKind = iota
	LessThan
	GreaterThan
	Interval
)

// Range is a reference range expression parsed once into a comparable form.
type Range struct {
	Kind RangeKind
	Lo   float64 // Interval lower bound, GreaterThan threshold
	Hi   float64 // Interval upper bound, LessThan threshold
}

var (
	numericOnly  = regexp.MustCompile(`[^0-9.\-]`)
	looseRangeRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)$`)

	cacheMu    sync.RWMutex
	rangeCache = map[string]Range{}
)

// ParseValue extracts a numeric measurement from raw lab text. Values such
// as "<5" or "7.2 g/dL" parse by stripping everything except digits, dot and
// minus. Unparseable text returns a workflow.ParseError.
func ParseValue(raw string) (float64, error) {
	stripped := numericOnly.ReplaceAllString(raw, "")
	v, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, &workflow.ParseError{Input: raw}
	}
	return v, nil
}

// ParseRange parses a single (sex-resolved) reference range expression into
// its tagged form. Results are memoized per expression; classification is
// called for every value of every submitted result, and the set of distinct
// expressions is small.
func ParseRange(expr string) Range {
	expr = normalize(expr)

	cacheMu.RLock()
	r, ok := rangeCache[expr]
	cacheMu.RUnlock()
	if ok {
		return r
	}

	r = parseRange(expr)
	cacheMu.Lock()
	rangeCache[expr] = r
	cacheMu.Unlock()
	return r
}

func parseRange(expr string) Range {
	switch {
	case strings.HasPrefix(expr, "<"):
		if v, err := strconv.ParseFloat(strings.TrimSpace(expr[1:]), 64); err == nil {
			return Range{Kind: LessThan, Hi: v}
		}
	case strings.HasPrefix(expr, ">"):
		if v, err := strconv.ParseFloat(strings.TrimSpace(expr[1:]), 64); err == nil {
			return Range{Kind: GreaterThan, Lo: v}
		}
	}

	// "A-B" with exactly one hyphen and numeric sides.
	if strings.Count(expr, "-") == 1 {
		parts := strings.SplitN(expr, "-", 2)
		lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLo == nil && errHi == nil {
			return Range{Kind: Interval, Lo: lo, Hi: hi}
		}
	}

	// Looser match for ranges with internal whitespace or stray characters.
	if m := looseRangeRe.FindStringSubmatch(expr); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		return Range{Kind: Interval, Lo: lo, Hi: hi}
	}

	return Range{Kind: Unparseable}
}

// normalize lowercases, trims, and folds unicode dashes to ASCII hyphens.
// Legacy catalogs routinely carry en dashes pasted from documents.
func normalize(expr string) string {
	expr = strings.ToLower(strings.TrimSpace(expr))
	expr = strings.ReplaceAll(expr, "–", "-")
	expr = strings.ReplaceAll(expr, "—", "-")
	return expr
}

// selectSegment resolves a sex-split expression like "M: >40, F: >50" to the
// segment matching sex. Falls back to the first (male) segment when sex is
// absent or unmatched. Expressions without both markers pass through intact.
func selectSegment(expr, sex string) string {
	lower := normalize(expr)
	if !strings.Contains(lower, "m:") || !strings.Contains(lower, "f:") {
		return lower
	}

	want := strings.ToLower(strings.TrimSpace(sex))
	segments := strings.Split(lower, ",")
	first := ""
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		var prefix string
		switch {
		case strings.HasPrefix(seg, "m:"):
			prefix = "m"
		case strings.HasPrefix(seg, "f:"):
			prefix = "f"
		default:
			continue
		}
		body := strings.TrimSpace(seg[2:])
		if first == "" {
			first = body
		}
		if prefix == want {
			return body
		}
	}
	if first != "" {
		return first
	}
	return lower
}

// ValueCheck describes one measured value for abnormality screening. Flag,
// when set, is the cached classification; it is re-derivable from the other
// fields and HasAbnormal recomputes it when absent.
type ValueCheck struct {
	Value          string
	ReferenceRange string
	Sex            string
	Flag           Flag
}

// HasAbnormal reports whether any value in the set is flagged High, Low or
// Critical, recomputing flags that were not stored.
func HasAbnormal(values []ValueCheck) bool {
	for _, v := range values {
		if v.Flag.Abnormal() {
			return true
		}
		if v.Flag == FlagNone && Classify(v.Value, v.ReferenceRange, v.Sex).Abnormal() {
			return true
		}
	}
	return false
}

// Classify compares a raw value against a reference range expression and
// returns its flag. sex is "M" or "F" and selects the matching segment of
// sex-split ranges; empty or unknown sex defaults to the first segment.
// Classification never fails: ambiguity yields FlagNone.
func Classify(value, refRange, sex string) Flag {
	v, err := ParseValue(value)
	if err != nil {
		return FlagNone
	}

	r := ParseRange(selectSegment(refRange, sex))
	switch r.Kind {
	case LessThan:
		if v >= r.Hi {
			return FlagHigh
		}
	case GreaterThan:
		if v <= r.Lo {
			return FlagLow
		}
	case Interval:
		if v < r.Lo {
			return FlagLow
		}
		if v > r.Hi {
			return FlagHigh
		}
	}
	return FlagNone
}
