package dto

type MovementFilters struct {
	StoreID      string
	ProductID    string
	MovementType string
	Page         int
	PageSize     int
}
