package categories

type CreateCategoryPayload struct {
	Name string `json:"name" mod:"trim" validate:"required,max=100"`
}

type UpdateCategoryPayload struct {
	Name string `json:"name" mod:"trim" validate:"required,max=100"`
}
