package events

import "time"

const LeaveLifecycleTopic = "ems.leave.lifecycle.v1"

const (
	EventLeaveRequested = "leave.requested"
	EventLeaveApproved  = "leave.approved"
	EventLeaveRejected  = "leave.rejected"
)

// LeaveLifecycleEvent is the payload published for every leave state change the
// notification sink cares about. Delivery is best-effort; consumers must treat
// the stream as at-least-once.
type LeaveLifecycleEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	ActorID        string    `json:"actor_id,omitempty"`
	LeaveType      string    `json:"leave_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TotalDays      int       `json:"total_days"`
	OccurredAt     time.Time `json:"occurred_at"`
}
