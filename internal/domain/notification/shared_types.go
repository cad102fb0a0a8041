// internal/domain/notification/shared_types.go
package notification

// Kind is the notification type as stored in the notifications table.
// The dashboard feed reads these values, so they keep the storage names.
type Kind string

const (
	KindAdvance Kind = "info"     // rent due in AdvanceNoticeDays
	KindDue     Kind = "reminder" // rent due today
	KindOverdue Kind = "alert"    // boundary passed, still inside the overdue window
)

// Titles double as part of the dedup key, do not reword them casually.
const (
	TitleAdvance  = "Rent Due Soon"
	TitleDue      = "Rent Due Today"
	TitleOverdue  = "Rent Overdue"
	TitleDuePlain = "Rent Due" // plain due-today reminder
)

func (k Kind) String() string {
	return string(k)
}

// Label is the human name of the kind, used in logs.
func (k Kind) Label() string {
	switch k {
	case KindAdvance:
		return "advance"
	case KindDue:
		return "due"
	case KindOverdue:
		return "overdue"
	default:
		return string(k)
	}
}
