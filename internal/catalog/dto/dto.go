package dto

type SearchFilters struct {
	StoreID    string
	CategoryID string
	Query      string
	ListedOnly bool
	Limit      int
}
