package domain

// Category é um rótulo plano de classificação de materiais.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryInput é o payload de criação de categoria.
type CategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}
