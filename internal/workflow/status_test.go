package workflow

import (
	"errors"
	"testing"
)

func TestValidOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		if !ValidOrderStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if ValidOrderStatus("Shipped") {
		t.Error("unknown status accepted")
	}
}

func TestValidResultStatus(t *testing.T) {
	for _, s := range []ResultStatus{Entered, UnderReview, Approved, Reported} {
		if !ValidResultStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if ValidResultStatus("Draft") {
		t.Error("unknown status accepted")
	}
}

func TestPreconditionErrorCarriesReasonVerbatim(t *testing.T) {
	err := &PreconditionError{Reason: "Sample must be collected before starting laboratory processing"}
	if err.Error() != "Sample must be collected before starting laboratory processing" {
		t.Errorf("reason mangled: %q", err.Error())
	}
	var pe *PreconditionError
	if !errors.As(error(err), &pe) {
		t.Error("errors.As should match *PreconditionError")
	}
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := &InvalidTransitionError{From: "Approved", To: "Entered"}
	want := `invalid transition from "Approved" to "Entered"`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
