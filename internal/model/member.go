package model

type Member struct {
	BaseModel
	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone"`
	Note  string `db:"note" json:"note"`
}
