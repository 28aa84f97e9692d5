// Package workflow owns the order and result lifecycle vocabulary: the two
// status enums with their stable wire values, the typed errors every state
// controller returns, and the pure reconciliation function that derives order
// status from aggregate result state.
package workflow

// OrderStatus is the lifecycle state of a lab order. The string values are
// stable and stored as-is.
type OrderStatus string

const (
	OrderCreated     OrderStatus = "Order Created"
	SampleCollection OrderStatus = "Sample Collection"
	InProgress       OrderStatus = "In Progress"
	PendingApproval  OrderStatus = "Pending Approval"
	Completed        OrderStatus = "Completed"
	Delivered        OrderStatus = "Delivered"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderCreated, SampleCollection, InProgress, PendingApproval, Completed, Delivered,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ResultStatus is the review state of a single test result.
type ResultStatus string

const (
	Entered     ResultStatus = "Entered"
	UnderReview ResultStatus = "Under Review"
	Approved    ResultStatus = "Approved"
	Reported    ResultStatus = "Reported"
)

// ValidResultStatus reports whether s is a known result status.
func ValidResultStatus(s ResultStatus) bool {
	switch s {
	case Entered, UnderReview, Approved, Reported:
		return true
	}
	return false
}

// Priority of an order. Priority affects downstream scheduling only, never
// the state graph.
type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityUrgent Priority = "Urgent"
	PrioritySTAT   Priority = "STAT"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityNormal, PriorityUrgent, PrioritySTAT:
		return true
	}
	return false
}
