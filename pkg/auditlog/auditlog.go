package auditlog

import (
	"log"

	"giftforms/pkg/models"
)

type LogStore interface {
	PersistLog(entry models.AuditLog, data interface{}) error
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

type Auditlog struct {
	store LogStore
}

func NewAuditLog(store LogStore) *Auditlog {
	return &Auditlog{store: store}
}

// Log records an action against a resource. Failures are logged and
// swallowed: audit trail gaps must never fail the request that caused them.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	entry := item.CreateLogView()
	entry.Action = action

	if err := a.store.PersistLog(entry, data); err != nil {
		log.Println("Unable to create AuditLog entry for id ", entry.ResourceID)
		return
	}
}
