package models

// Item elemento de uma lista priorizável
type Item struct {
	ID    string `json:"id" validate:"required"`
	Fixed bool   `json:"fixed"`
	Order int    `json:"order"`
}

// IDs retorna os identificadores na ordem atual
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
