package audit

import "time"

type Action string

const (
	ActionCheckIn            Action = "CHECK_IN"
	ActionCheckOut           Action = "CHECK_OUT"
	ActionOverrideStatus     Action = "OVERRIDE_STATUS"
	ActionUpdateSettings     Action = "UPDATE_SETTINGS"
	ActionMarkAbsent         Action = "MARK_ABSENT"
	ActionCreateEmployee     Action = "CREATE_EMPLOYEE"
	ActionUpdateEmployee     Action = "UPDATE_EMPLOYEE"
	ActionDeactivateEmployee Action = "DEACTIVATE_EMPLOYEE"
)

// Event is an append-only audit log entry.
type Event struct {
	ID        string
	ActorID   string
	Action    Action
	Detail    string
	IPAddress *string
	Timestamp time.Time
}
