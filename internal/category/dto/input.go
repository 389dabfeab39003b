package dto

type CreateCategoryInput struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type UpdateCategoryInput struct {
	ID        string `json:"-"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}
