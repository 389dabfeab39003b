// Package session is the register's cashier session: one cart, one discount,
// one tender accumulator and at most one pending keypad prompt, guarded by a
// mutex so concurrent requests for the same register apply one at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-register/config"
	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/catalog"
	"github.com/fekuna/omnipos-register/internal/checkout"
	"github.com/fekuna/omnipos-register/internal/keypad"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/pricing"
	"github.com/fekuna/omnipos-register/internal/tender"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrCommitInProgress     = errors.New("checkout already in progress")
	ErrCannotCheckout       = errors.New("cart is empty or received amount is short")
	ErrProductNotFound      = errors.New("product not found in catalog")
	ErrProductUnlisted      = errors.New("product is not listed in this store")
	ErrPromptPending        = errors.New("another prompt is open")
	ErrNoPrompt             = errors.New("no prompt is open")
	ErrFieldMismatch        = errors.New("key press does not target the open prompt")
	ErrInvalidPrompt        = errors.New("unknown prompt kind")
	ErrLineNotFound         = errors.New("cart line not found")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrInvalidExpense       = errors.New("expense amount must be positive")
	ErrNoMemberLookup       = errors.New("member lookup is not configured")
	ErrNoExpenseRecorder    = errors.New("expense recording is not configured")
)

type Committer interface {
	Commit(ctx context.Context, snap checkout.Snapshot) (*checkout.Receipt, error)
}

type MemberFinder interface {
	FindMember(ctx context.Context, query string) (*model.Member, error)
}

type ExpenseRecorder interface {
	RecordExpense(ctx context.Context, storeID string, amount decimal.Decimal, reason string) (*model.Expense, error)
}

// Deps are the collaborators shared by every session.
type Deps struct {
	Committer Committer
	Members   MemberFinder
	Expenses  ExpenseRecorder
	Register  config.RegisterConfig
	Logger    logger.ZapLogger
	Now       func() time.Time
}

type Session struct {
	mu sync.Mutex

	id            string
	storeID       string
	catalog       *catalog.Snapshot
	cart          *cart.Cart
	discount      pricing.Discount
	tender        tender.Tender
	member        *model.Member
	paymentMethod string
	prompt        *Prompt
	committing    bool
	receipt       *checkout.Receipt

	deps   Deps
	logger logger.ZapLogger
}

func New(id string, snap *catalog.Snapshot, deps Deps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	storeID := ""
	if snap != nil {
		storeID = snap.StoreID
	}
	return &Session{
		id:            id,
		storeID:       storeID,
		catalog:       snap,
		cart:          cart.New(),
		discount:      pricing.DefaultDiscount(),
		paymentMethod: deps.Register.DefaultPaymentMethod,
		deps:          deps,
		logger:        deps.Logger.With(zap.String("session_id", id)),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) StoreID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeID
}

// mutate runs fn under the lock unless a commit is in flight. Every
// operator action dismisses the last receipt.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committing {
		return ErrCommitInProgress
	}
	if err := fn(); err != nil {
		return err
	}
	s.receipt = nil
	return nil
}

// AddProduct adds a catalog product at its effective price. When the
// product has no price a PromptAddPrice is opened and returned instead.
func (s *Session) AddProduct(productID string) (*PromptView, error) {
	var view *PromptView
	err := s.mutate(func() error {
		item, ok := s.catalog.Lookup(productID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		if !item.Listed {
			return fmt.Errorf("%w: %s", ErrProductUnlisted, item.Name)
		}
		if s.prompt != nil {
			return ErrPromptPending
		}

		req := s.cart.Add(item, s.member)
		if req == nil {
			return nil
		}
		p := newPrompt(PromptAddPrice, decimal.Zero)
		p.Item = &req.Item
		s.prompt = p
		view = p.view()
		return nil
	})
	return view, err
}

// EditLine applies an edit directly. Out-of-range indices are ignored.
func (s *Session) EditLine(index int, edit cart.LineEdit) error {
	return s.mutate(func() error {
		s.cart.Edit(index, edit)
		return nil
	})
}

func (s *Session) RemoveLine(index int) error {
	return s.mutate(func() error {
		s.cart.Remove(index)
		if s.prompt != nil && s.prompt.LineIndex >= 0 {
			s.prompt = nil
		}
		return nil
	})
}

func (s *Session) ClearCart() error {
	return s.mutate(func() error {
		s.cart.Clear()
		if s.prompt != nil && s.prompt.LineIndex >= 0 {
			s.prompt = nil
		}
		return nil
	})
}

// OpenPrompt starts keypad entry for kind. lineIndex is only read for line
// prompts. The buffer starts at the current value, as the numpad does.
func (s *Session) OpenPrompt(kind PromptKind, lineIndex int) (*PromptView, error) {
	var view *PromptView
	err := s.mutate(func() error {
		if !kind.Valid() || kind == PromptAddPrice {
			return fmt.Errorf("%w: %q", ErrInvalidPrompt, kind)
		}
		if s.prompt != nil {
			return ErrPromptPending
		}

		var p *Prompt
		switch kind {
		case PromptLinePrice, PromptLineQuantity:
			lines := s.cart.Lines()
			if lineIndex < 0 || lineIndex >= len(lines) {
				return fmt.Errorf("%w: %d", ErrLineNotFound, lineIndex)
			}
			initial := lines[lineIndex].UnitPrice
			if kind == PromptLineQuantity {
				initial = decimal.NewFromInt(int64(lines[lineIndex].Quantity))
			}
			p = newPrompt(kind, initial)
			p.LineIndex = lineIndex
		case PromptDiscountFlat:
			p = newPrompt(kind, s.discount.Flat)
		case PromptDiscountPercent:
			p = newPrompt(kind, s.discount.Percent)
		case PromptExpense:
			p = newPrompt(kind, decimal.Zero)
		}
		s.prompt = p
		view = p.view()
		return nil
	})
	return view, err
}

// PressKey routes k to field. Received goes to the tender accumulator; every
// other field must match the open prompt.
func (s *Session) PressKey(field keypad.Field, k keypad.Key) error {
	return s.mutate(func() error {
		if field == keypad.FieldReceived {
			s.tender.Press(k)
			return nil
		}
		if s.prompt == nil {
			return ErrNoPrompt
		}
		if s.prompt.Kind.Field() != field {
			return fmt.Errorf("%w: %s", ErrFieldMismatch, field)
		}
		s.prompt.buf.Press(k)
		return nil
	})
}

func (s *Session) SetPromptReason(reason string) error {
	return s.mutate(func() error {
		if s.prompt == nil {
			return ErrNoPrompt
		}
		s.prompt.Reason = strings.TrimSpace(reason)
		return nil
	})
}

// ResolvePrompt applies the open prompt's value and closes it. On error the
// prompt stays open so the operator can correct it.
func (s *Session) ResolvePrompt(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committing {
		return ErrCommitInProgress
	}
	if s.prompt == nil {
		return ErrNoPrompt
	}

	p := s.prompt
	value := p.Value()
	switch p.Kind {
	case PromptAddPrice:
		s.cart.AddAt(*p.Item, value)
	case PromptLinePrice:
		s.cart.Edit(p.LineIndex, cart.LineEdit{Price: &value})
	case PromptLineQuantity:
		s.cart.Edit(p.LineIndex, cart.LineEdit{Quantity: &value})
	case PromptDiscountFlat:
		s.discount.Flat = value
	case PromptDiscountPercent:
		s.discount.Percent = value
	case PromptExpense:
		if err := s.recordExpense(ctx, value, p.Reason); err != nil {
			return err
		}
	}

	s.prompt = nil
	s.receipt = nil
	return nil
}

func (s *Session) recordExpense(ctx context.Context, amount decimal.Decimal, reason string) error {
	if s.deps.Expenses == nil {
		return ErrNoExpenseRecorder
	}
	if !amount.IsPositive() {
		return ErrInvalidExpense
	}
	exp, err := s.deps.Expenses.RecordExpense(ctx, s.storeID, amount, reason)
	if err != nil {
		return fmt.Errorf("record expense: %w", err)
	}
	s.logger.Info("expense recorded",
		zap.String("expense_id", exp.ID),
		zap.String("amount", amount.String()),
	)
	return nil
}

func (s *Session) CancelPrompt() error {
	return s.mutate(func() error {
		s.prompt = nil
		return nil
	})
}

// SetDiscount replaces both discount parts. Negative values clamp to zero.
func (s *Session) SetDiscount(d pricing.Discount) error {
	return s.mutate(func() error {
		s.discount = d.Normalize()
		return nil
	})
}

// UpdateDiscount replaces only the parts that are given; nil keeps the
// current value.
func (s *Session) UpdateDiscount(flat, percent *decimal.Decimal) error {
	return s.mutate(func() error {
		d := s.discount
		if flat != nil {
			d.Flat = *flat
		}
		if percent != nil {
			d.Percent = *percent
		}
		s.discount = d.Normalize()
		return nil
	})
}

func (s *Session) ResetDiscount() error {
	return s.mutate(func() error {
		s.discount = pricing.DefaultDiscount()
		return nil
	})
}

// SetReceivedPreset replaces the received amount with a quick amount.
func (s *Session) SetReceivedPreset(amount int64) error {
	return s.mutate(func() error {
		if amount < 0 {
			amount = 0
		}
		s.tender.Preset(amount)
		return nil
	})
}

func (s *Session) SetPaymentMethod(method string) error {
	return s.mutate(func() error {
		if !s.deps.Register.HasPaymentMethod(method) {
			return fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, method)
		}
		s.paymentMethod = method
		return nil
	})
}

// AttachMember looks a member up by name or phone. Lines already in the cart
// keep their prices.
func (s *Session) AttachMember(ctx context.Context, query string) (*model.Member, error) {
	if s.deps.Members == nil {
		return nil, ErrNoMemberLookup
	}
	query = strings.TrimSpace(query)

	// Lookup happens outside the lock; only the assignment is serialized.
	m, err := s.deps.Members.FindMember(ctx, query)
	if err != nil {
		return nil, err
	}

	err = s.mutate(func() error {
		s.member = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Session) DetachMember() error {
	return s.mutate(func() error {
		s.member = nil
		return nil
	})
}

// Checkout freezes the session, commits it and resets on success. While the
// commit runs every other mutation is rejected with ErrCommitInProgress.
// A failed commit leaves cart, discount and tender untouched.
func (s *Session) Checkout(ctx context.Context) (*checkout.Receipt, error) {
	s.mu.Lock()
	if s.committing {
		s.mu.Unlock()
		return nil, ErrCommitInProgress
	}

	lines := s.cart.Lines()
	totals := pricing.Compute(lines, s.discount)
	change := s.tender.ChangeDue(totals.Final)
	if !tender.CanCheckout(len(lines), change) {
		s.mu.Unlock()
		return nil, ErrCannotCheckout
	}

	snap := checkout.Snapshot{
		StoreID:       s.storeID,
		Lines:         lines,
		Discount:      s.discount,
		Totals:        totals,
		Received:      s.tender.Received(),
		Change:        change,
		Member:        copyMember(s.member),
		PaymentMethod: s.paymentMethod,
		TakenAt:       s.deps.Now(),
	}
	s.committing = true
	s.receipt = nil
	s.mu.Unlock()

	receipt, err := s.deps.Committer.Commit(ctx, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.committing = false
	if err != nil {
		s.logger.Error("checkout failed", zap.Error(err))
		return nil, err
	}

	s.cart.Clear()
	s.tender.Reset()
	s.discount = pricing.DefaultDiscount()
	s.member = nil
	s.prompt = nil
	s.receipt = receipt
	return receipt, nil
}

func (s *Session) DismissReceipt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipt = nil
}

// SetCatalog swaps in a fresh snapshot of the same store. Cart lines keep
// their captured names and prices.
func (s *Session) SetCatalog(snap *catalog.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = snap
}

// SwitchStore binds the session to another store and starts a new sale.
func (s *Session) SwitchStore(snap *catalog.Snapshot) error {
	return s.mutate(func() error {
		s.catalog = snap
		s.storeID = snap.StoreID
		s.cart.Clear()
		s.tender.Reset()
		s.discount = pricing.DefaultDiscount()
		s.prompt = nil
		return nil
	})
}

// Products lists the catalog for the register's product grid.
func (s *Session) Products(f catalog.Filter) []catalog.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Filter(f)
}

// View is a consistent copy of the session with derived totals.
type View struct {
	ID             string            `json:"id"`
	StoreID        string            `json:"store_id"`
	Lines          []cart.Line       `json:"lines"`
	Discount       pricing.Discount  `json:"discount"`
	DiscountLabel  string            `json:"discount_label"`
	Totals         pricing.Totals    `json:"totals"`
	ReceivedText   string            `json:"received_text"`
	Change         decimal.Decimal   `json:"change"`
	CanCheckout    bool              `json:"can_checkout"`
	Member         *model.Member     `json:"member"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentMethods []string          `json:"payment_methods"`
	QuickAmounts   []int64           `json:"quick_amounts"`
	Prompt         *PromptView       `json:"prompt"`
	Committing     bool              `json:"committing"`
	Receipt        *checkout.Receipt `json:"receipt"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.cart.Lines()
	totals := pricing.Compute(lines, s.discount)
	change := s.tender.ChangeDue(totals.Final)

	v := View{
		ID:             s.id,
		StoreID:        s.storeID,
		Lines:          lines,
		Discount:       s.discount,
		DiscountLabel:  s.discount.String(),
		Totals:         totals,
		ReceivedText:   s.tender.Text(),
		Change:         change,
		CanCheckout:    !s.committing && tender.CanCheckout(len(lines), change),
		Member:         copyMember(s.member),
		PaymentMethod:  s.paymentMethod,
		PaymentMethods: s.deps.Register.PaymentMethods,
		QuickAmounts:   s.deps.Register.QuickAmounts,
		Committing:     s.committing,
		Receipt:        s.receipt,
	}
	if s.prompt != nil {
		v.Prompt = s.prompt.view()
	}
	return v
}

func copyMember(m *model.Member) *model.Member {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
