package dto

type CreateMemberInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Note  string `json:"note"`
}

type UpdateMemberInput struct {
	ID    string `json:"-"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Note  string `json:"note"`
}
