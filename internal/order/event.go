package order

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventOrderCreated = "OrderCreated"

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID            string             `json:"id"`
	StoreID       string             `json:"store_id"`
	MemberID      *string            `json:"member_id,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Items         []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func NewOrderCreatedEvent(o *model.Order, at time.Time) OrderCreatedEvent {
	payload := OrderPayload{
		ID:            o.ID,
		MemberID:      o.MemberID,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		Items:         make([]OrderItemPayload, 0, len(o.Items)),
	}
	if o.StoreID != nil {
		payload.StoreID = *o.StoreID
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, OrderItemPayload{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	return OrderCreatedEvent{
		EventID:   uuid.New().String(),
		EventType: EventOrderCreated,
		Payload:   payload,
		Timestamp: at.UTC(),
	}
}

// ParseEvent decodes a broker message. Events of other types decode fine;
// callers check EventType.
func ParseEvent(data []byte) (*OrderCreatedEvent, error) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal order event: %w", err)
	}
	return &event, nil
}
