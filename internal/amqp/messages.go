package amqp

import (
	"encoding/json"
	"time"
)

// LedgerSyncMessage asks the export worker to push one ledger row to the
// spreadsheet. Only the table and id travel on the wire; the worker reloads
// the row from storage so it always exports current data.
type LedgerSyncMessage struct {
	Table     string    `json:"table"` // "income" or "expenses"
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerSyncMessage(table string, id int64) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		Table:     table,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
