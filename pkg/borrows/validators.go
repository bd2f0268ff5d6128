package borrows

type ListBorrowsQuery struct {
	Page  int `query:"page" json:"page,omitempty"`
	Limit int `query:"limit" json:"limit,omitempty"`
}

type CreateBorrowPayload struct {
	BookID     int     `json:"book_id" validate:"required,min=1"`
	UserID     int     `json:"user_id" validate:"required,min=1"`
	DueDate    string  `json:"due_date" validate:"required,date"`
	BorrowDate *string `json:"borrow_date,omitempty" validate:"omitempty,date"`
}

type ReturnBookPayload struct {
	ReturnDate *string `json:"return_date,omitempty" validate:"omitempty,date"`
}
