package notification

import (
	"context"
	"time"
)

// EventType identifies what happened in the payment pipeline.
type EventType string

const (
	TypePayrollPaid         EventType = "payroll.paid"
	TypeWithdrawalApproved  EventType = "withdrawal.approved"
	TypeWithdrawalRejected  EventType = "withdrawal.rejected"
	TypeWithdrawalCompleted EventType = "withdrawal.completed"
)

// Event is emitted after a money-moving transaction commits. Consumers
// must not expect a reply.
type Event struct {
	ID         string
	Type       EventType
	StaffID    string
	Title      string
	Message    string
	Data       map[string]interface{}
	OccurredAt time.Time
}

// Publisher hands events to the notification dispatcher.
//
//go:generate mockgen -destination=mock/publisher_mock.go -package=mock . Publisher
type Publisher interface {
	Publish(ctx context.Context, event Event)
}
