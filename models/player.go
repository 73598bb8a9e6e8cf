package models

type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"` // Не обязательно уникальное
}
