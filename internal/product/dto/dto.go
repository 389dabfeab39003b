package dto

type ProductFilters struct {
	CategoryID  string
	SearchQuery string // name substring, case-insensitive
	Page        int
	PageSize    int
}
