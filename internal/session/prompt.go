package session

import (
	"github.com/fekuna/omnipos-register/internal/catalog"
	"github.com/fekuna/omnipos-register/internal/keypad"
	"github.com/shopspring/decimal"
)

type PromptKind string

const (
	PromptAddPrice        PromptKind = "add_price"
	PromptLinePrice       PromptKind = "line_price"
	PromptLineQuantity    PromptKind = "line_quantity"
	PromptDiscountFlat    PromptKind = "discount_flat"
	PromptDiscountPercent PromptKind = "discount_percent"
	PromptExpense         PromptKind = "expense"
)

var promptFields = map[PromptKind]keypad.Field{
	PromptAddPrice:        keypad.FieldPrice,
	PromptLinePrice:       keypad.FieldPrice,
	PromptLineQuantity:    keypad.FieldQuantity,
	PromptDiscountFlat:    keypad.FieldDiscountFlat,
	PromptDiscountPercent: keypad.FieldDiscountPercent,
	PromptExpense:         keypad.FieldExpense,
}

func (k PromptKind) Field() keypad.Field {
	return promptFields[k]
}

func (k PromptKind) Valid() bool {
	_, ok := promptFields[k]
	return ok
}

// Prompt is a pending request for a number from the operator. The session
// holds at most one; ResolvePrompt applies it and CancelPrompt drops it.
type Prompt struct {
	Kind      PromptKind
	LineIndex int
	Item      *catalog.Item
	Reason    string

	buf keypad.Buffer
}

func newPrompt(kind PromptKind, initial decimal.Decimal) *Prompt {
	p := &Prompt{Kind: kind, LineIndex: -1}
	if !initial.IsZero() {
		p.buf = keypad.NewBuffer(initial.String())
	}
	return p
}

func (p *Prompt) Text() string {
	return p.buf.Text()
}

func (p *Prompt) Value() decimal.Decimal {
	return p.buf.Value()
}

// PromptView is the read-only shape of a prompt handed to the UI.
type PromptView struct {
	Kind        PromptKind   `json:"kind"`
	Field       keypad.Field `json:"field"`
	LineIndex   int          `json:"line_index"`
	ProductID   string       `json:"product_id,omitempty"`
	ProductName string       `json:"product_name,omitempty"`
	Text        string       `json:"text"`
	Reason      string       `json:"reason,omitempty"`
}

func (p *Prompt) view() *PromptView {
	v := &PromptView{
		Kind:      p.Kind,
		Field:     p.Kind.Field(),
		LineIndex: p.LineIndex,
		Text:      p.buf.Text(),
		Reason:    p.Reason,
	}
	if p.Item != nil {
		v.ProductID = p.Item.ProductID
		v.ProductName = p.Item.Name
	}
	return v
}
