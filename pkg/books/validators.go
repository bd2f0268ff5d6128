package books

type ListBooksQuery struct {
	Page     int     `query:"page" json:"page,omitempty"`
	Limit    int     `query:"limit" json:"limit,omitempty"`
	Sort     string  `query:"sort" json:"sort,omitempty"`
	Category *int    `query:"category" json:"category,omitempty"`
	Status   *string `query:"status" json:"status,omitempty" validate:"omitempty,max=20"`
	Search   *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateBookPayload struct {
	Title       string  `json:"title" mod:"trim" validate:"required,max=300"`
	Author      *string `json:"author,omitempty" mod:"trim" validate:"omitempty,max=200"`
	ISBN        *string `json:"isbn,omitempty" mod:"trim" validate:"omitempty,max=32"`
	Description *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
	CategoryID  *int    `json:"category_id,omitempty" validate:"omitempty,min=0"`
	ReadStatus  *string `json:"read_status,omitempty" validate:"omitempty,oneof=read in-progress to-read"`
}

type UpdateBookPayload struct {
	Title       string  `json:"title" mod:"trim" validate:"required,max=300"`
	Author      *string `json:"author,omitempty" mod:"trim" validate:"omitempty,max=200"`
	ISBN        *string `json:"isbn,omitempty" mod:"trim" validate:"omitempty,max=32"`
	Description *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
	CategoryID  *int    `json:"category_id,omitempty" validate:"omitempty,min=0"`
	ReadStatus  *string `json:"read_status,omitempty" validate:"omitempty,oneof=read in-progress to-read"`
}
