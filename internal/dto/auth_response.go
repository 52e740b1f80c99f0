package dto

type LoginResponse struct {
	Token string `json:"token"`
}

type RegisterResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}
