package sampleid

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAssign_Format(t *testing.T) {
	id := Assign(date(2025, time.January, 5), 3)
	if id.SampleID != "05-Jan-2025-003" {
		t.Errorf("got %q", id.SampleID)
	}
	if id.ColorName != "Green" || id.ColorCode != "#10B981" {
		t.Errorf("sequence 3 should map to Green, got %s/%s", id.ColorCode, id.ColorName)
	}
}

func TestAssign_PaletteWrapsAtTwelve(t *testing.T) {
	d := date(2025, time.January, 5)
	first := Assign(d, 1)
	thirteenth := Assign(d, 13)
	if first.ColorCode != thirteenth.ColorCode || first.ColorName != thirteenth.ColorName {
		t.Errorf("sequence 13 should reuse sequence 1 color: %+v vs %+v", first, thirteenth)
	}
	if first.SampleID == thirteenth.SampleID {
		t.Error("sample IDs must still differ")
	}
	if thirteenth.SampleID != "05-Jan-2025-013" {
		t.Errorf("got %q", thirteenth.SampleID)
	}
}

func TestAssign_Deterministic(t *testing.T) {
	d := date(2024, time.December, 31)
	a := Assign(d, 7)
	b := Assign(d, 7)
	if a != b {
		t.Errorf("assignment is not reproducible: %+v vs %+v", a, b)
	}
}

func TestAssign_TwelveDistinctColors(t *testing.T) {
	d := date(2025, time.March, 1)
	seen := map[string]bool{}
	for seq := 1; seq <= 12; seq++ {
		seen[Assign(d, seq).ColorCode] = true
	}
	if len(seen) != 12 {
		t.Errorf("expected 12 distinct colors, got %d", len(seen))
	}
}

func TestAssign_SequenceBelowOneClamps(t *testing.T) {
	id := Assign(date(2025, time.January, 5), 0)
	if id.SampleID != "05-Jan-2025-001" {
		t.Errorf("got %q", id.SampleID)
	}
}
