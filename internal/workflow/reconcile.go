package workflow

// ResultState is the slice of a result the reconciler needs: its review
// status and whether the technician has submitted any values for it.
type ResultState struct {
	Status    ResultStatus
	HasValues bool
}

// Reconcile derives the order status that should follow a result mutation.
// It is a one-step lookahead: only the two transitions adjacent to the
// current status are considered, and the order only ever advances.
// Regressions (a reverted result un-completing an order) are left to manual
// status changes, which operators find less surprising.
//
// Returns the new status and true when the order should advance; otherwise
// the current status and false.
func Reconcile(current OrderStatus, orderedTests int, results []ResultState) (OrderStatus, bool) {
	if orderedTests <= 0 {
		return current, false
	}

	submitted, approved := 0, 0
	for _, r := range results {
		if r.HasValues {
			submitted++
		}
		if r.Status == Approved || r.Status == Reported {
			approved++
		}
	}

	switch current {
	case InProgress:
		if submitted >= orderedTests {
			return PendingApproval, true
		}
	case PendingApproval:
		if approved >= orderedTests {
			return Completed, true
		}
	}
	return current, false
}
