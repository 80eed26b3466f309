package domain

import "time"

type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

type OutboxType string

const (
	OutboxTypeApplicationReceived OutboxType = "application_received"
	OutboxTypeTempPassword        OutboxType = "temp_password"
	OutboxTypeDecision            OutboxType = "decision"
)

// OutboxMessage is a durably recorded notification intent. The pipeline only
// ever inserts pending messages; the delivery worker owns every later mutation.
type OutboxMessage struct {
	ID        string            `json:"id"`
	Type      OutboxType        `json:"type"`
	To        string            `json:"to"`
	Payload   map[string]string `json:"payload"`
	Status    OutboxStatus      `json:"status"`
	Attempts  int               `json:"attempts"`
	LastError string            `json:"lastError,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
