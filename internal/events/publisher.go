package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// SaleEvent is published after a checkout fully commits. Publishing is
// best-effort; it is not part of the checkout sequence.
type SaleEvent struct {
	EventID           string          `json:"event_id"`
	TransactionID     string          `json:"transaction_id"`
	TransactionNumber string          `json:"transaction_number"`
	OutletID          string          `json:"outlet_id"`
	EmployeeID        string          `json:"employee_id"`
	ShiftID           string          `json:"shift_id,omitempty"`
	PaymentMethod     string          `json:"payment_method"`
	Total             float64         `json:"total"`
	Currency          string          `json:"currency"`
	Items             []SaleEventItem `json:"items"`
	OccurredAt        time.Time       `json:"occurred_at"`
}

type SaleEventItem struct {
	ProductID string  `json:"product_id"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
}

// Publisher writes sale events to Kafka.
type Publisher struct {
	writer   *kafka.Writer
	currency string
}

func NewPublisher(brokers []string, topic, currency string) *Publisher {
	return &Publisher{
		currency: currency,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Publisher) SaleCompleted(ctx context.Context, ev SaleEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	if ev.Currency == "" {
		ev.Currency = p.currency
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.TransactionNumber),
		Value: payload,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
