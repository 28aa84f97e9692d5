package workflow

import "testing"

func TestReconcile_AdvancesToPendingApprovalWhenAllSubmitted(t *testing.T) {
	results := []ResultState{
		{Status: UnderReview, HasValues: true},
		{Status: UnderReview, HasValues: true},
		{Status: UnderReview, HasValues: true},
	}
	st, changed := Reconcile(InProgress, 3, results)
	if !changed {
		t.Fatal("expected order to advance")
	}
	if st != PendingApproval {
		t.Errorf("expected %q, got %q", PendingApproval, st)
	}
}

func TestReconcile_StaysInProgressWhileResultsMissing(t *testing.T) {
	results := []ResultState{
		{Status: UnderReview, HasValues: true},
		{Status: UnderReview, HasValues: true},
	}
	st, changed := Reconcile(InProgress, 3, results)
	if changed {
		t.Fatalf("expected no change, got %q", st)
	}
	if st != InProgress {
		t.Errorf("expected %q, got %q", InProgress, st)
	}
}

func TestReconcile_AdvancesToCompletedWhenAllApproved(t *testing.T) {
	results := []ResultState{
		{Status: Approved, HasValues: true},
		{Status: Reported, HasValues: true},
		{Status: Approved, HasValues: true},
	}
	st, changed := Reconcile(PendingApproval, 3, results)
	if !changed || st != Completed {
		t.Errorf("expected advance to %q, got %q (changed=%v)", Completed, st, changed)
	}
}

func TestReconcile_DoesNotCompleteWithPendingReviews(t *testing.T) {
	results := []ResultState{
		{Status: Approved, HasValues: true},
		{Status: UnderReview, HasValues: true},
		{Status: Approved, HasValues: true},
	}
	_, changed := Reconcile(PendingApproval, 3, results)
	if changed {
		t.Error("expected no change while a result is still under review")
	}
}

func TestReconcile_OneStepLookaheadOnly(t *testing.T) {
	// Everything approved, but the order is still at sample collection:
	// the reconciler never jumps states that are not adjacent.
	results := []ResultState{{Status: Approved, HasValues: true}}
	st, changed := Reconcile(SampleCollection, 1, results)
	if changed {
		t.Errorf("expected no change from %q, got %q", SampleCollection, st)
	}
}

func TestReconcile_NeverRegresses(t *testing.T) {
	// A reverted result does not pull a completed order backwards.
	results := []ResultState{{Status: UnderReview, HasValues: true}}
	st, changed := Reconcile(Completed, 1, results)
	if changed || st != Completed {
		t.Errorf("expected %q unchanged, got %q (changed=%v)", Completed, st, changed)
	}
}

func TestReconcile_ZeroOrderedTestsIsNoop(t *testing.T) {
	_, changed := Reconcile(InProgress, 0, nil)
	if changed {
		t.Error("an order with no ordered tests must never auto-advance")
	}
}
