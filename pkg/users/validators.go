package users

type CreateUserPayload struct {
	Username string  `json:"username" mod:"trim" validate:"required,max=100"`
	Email    *string `json:"email,omitempty" mod:"trim" validate:"omitempty,email,max=200"`
}

type UpdateUserPayload struct {
	Username string  `json:"username" mod:"trim" validate:"required,max=100"`
	Email    *string `json:"email,omitempty" mod:"trim" validate:"omitempty,email,max=200"`
}
