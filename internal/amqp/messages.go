package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by expense event messages.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionImported = "imported"
)

// ExpenseEventMessage signals that an owner's expense set changed. The
// rollup worker reacts by recomputing that owner's monthly summaries; it
// re-reads the records from storage, so the message stays lightweight.
type ExpenseEventMessage struct {
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	ExpenseID string    `json:"expenseId,omitempty"`
	Count     int       `json:"count,omitempty"` // imported records, for ActionImported
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(userID, action, expenseID string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		UserID:    userID,
		Action:    action,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

func NewImportEvent(userID string, count int) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		UserID:    userID,
		Action:    ActionImported,
		Count:     count,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
