package queue

import (
	"encoding/json"
	"time"
)

// ProcessTransactionMessage is the work item fanned out by the recurring
// selection step. It carries only identifiers; the worker re-fetches the
// template from the database and re-checks due-ness, so stale or duplicate
// deliveries are harmless.
type ProcessTransactionMessage struct {
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewProcessTransactionMessage(transactionID, userID string) *ProcessTransactionMessage {
	return &ProcessTransactionMessage{
		TransactionID: transactionID,
		UserID:        userID,
		Timestamp:     time.Now(),
	}
}

func (m *ProcessTransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ProcessTransactionMessageFromJSON(data []byte) (*ProcessTransactionMessage, error) {
	var msg ProcessTransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
