package reports

type BorrowsByDateQuery struct {
	Date string `query:"date" json:"date" validate:"required,date"`
}

type TopBorrowedBooksQuery struct {
	Month string `query:"month" json:"month" validate:"required,month"`
}
