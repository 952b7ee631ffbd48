package models

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Fullname string `json:"fullname"`
}

type UpdateUserRequest struct {
	Password *string `json:"password"`
	Fullname *string `json:"fullname"`
}
