package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/shopspring/decimal"
)

// Item is a product as one store sells it.
type Item struct {
	ProductID      string           `json:"product_id"`
	Name           string           `json:"name"`
	CategoryID     *string          `json:"category_id"`
	SuggestedPrice *decimal.Decimal `json:"suggested_price"`
	MemberPrice    *decimal.Decimal `json:"member_price"`
	StorePrice     *decimal.Decimal `json:"store_price"`
	Stock          *int             `json:"stock"`
	Listed         bool             `json:"listed"`
	AvailableIn    []string         `json:"available_in"`
}

func (i Item) TracksStock() bool {
	return i.Stock != nil
}

func (i Item) HasCustomPrice() bool {
	return positive(i.StorePrice)
}

// EffectivePrice resolves what the item sells for. Member price wins when a
// member is attached, then the store override, then the suggested price.
// Zero means nobody set a price and the cashier must enter one.
func EffectivePrice(item Item, member *model.Member) decimal.Decimal {
	if member != nil && positive(item.MemberPrice) {
		return *item.MemberPrice
	}
	if positive(item.StorePrice) {
		return *item.StorePrice
	}
	if positive(item.SuggestedPrice) {
		return *item.SuggestedPrice
	}
	return decimal.Zero
}

func positive(d *decimal.Decimal) bool {
	return d != nil && d.IsPositive()
}

// Snapshot is an immutable per-store view of the catalog. Loaders replace
// it wholesale; nothing mutates one after construction.
type Snapshot struct {
	StoreID  string    `json:"store_id"`
	Items    []Item    `json:"items"`
	LoadedAt time.Time `json:"loaded_at"`

	index map[string]int
}

// NewSnapshot merges the product master list with every store's inventory
// rows. products keep their given order.
func NewSnapshot(storeID string, products []model.Product, inventory []model.StoreInventory, loadedAt time.Time) *Snapshot {
	own := make(map[string]model.StoreInventory)
	availableIn := make(map[string][]string)
	for _, inv := range inventory {
		if inv.StoreID == storeID {
			own[inv.ProductID] = inv
		}
		if inv.IsListed {
			availableIn[inv.ProductID] = append(availableIn[inv.ProductID], inv.StoreID)
		}
	}

	items := make([]Item, 0, len(products))
	for _, p := range products {
		item := Item{
			ProductID:      p.ID,
			Name:           p.Name,
			CategoryID:     p.CategoryID,
			SuggestedPrice: p.SuggestedPrice,
			MemberPrice:    p.MemberPrice,
			AvailableIn:    availableIn[p.ID],
		}
		if inv, ok := own[p.ID]; ok {
			item.StorePrice = inv.StorePrice
			item.Stock = inv.Stock
			item.Listed = inv.IsListed
		}
		sort.Strings(item.AvailableIn)
		items = append(items, item)
	}

	return FromItems(storeID, items, loadedAt)
}

// FromItems rebuilds a snapshot from already merged items, e.g. a cached copy.
func FromItems(storeID string, items []Item, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		StoreID:  storeID,
		Items:    items,
		LoadedAt: loadedAt,
		index:    make(map[string]int, len(items)),
	}
	for i, item := range items {
		s.index[item.ProductID] = i
	}
	return s
}

func (s *Snapshot) Lookup(productID string) (Item, bool) {
	if s == nil {
		return Item{}, false
	}
	i, ok := s.index[productID]
	if !ok {
		return Item{}, false
	}
	return s.Items[i], true
}

type Filter struct {
	CategoryID string
	Query      string
	ListedOnly bool
	ProductIDs []string
}

// Filter returns matching items. With ProductIDs set the result follows
// that order (search ranking) instead of catalog order.
func (s *Snapshot) Filter(f Filter) []Item {
	if s == nil {
		return nil
	}

	candidates := s.Items
	if f.ProductIDs != nil {
		candidates = make([]Item, 0, len(f.ProductIDs))
		for _, id := range f.ProductIDs {
			if item, ok := s.Lookup(id); ok {
				candidates = append(candidates, item)
			}
		}
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Item, 0, len(candidates))
	for _, item := range candidates {
		if f.ListedOnly && !item.Listed {
			continue
		}
		if f.CategoryID != "" && (item.CategoryID == nil || *item.CategoryID != f.CategoryID) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		out = append(out, item)
	}
	return out
}
