package dto

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	// Exp is the token expiry in unix seconds.
	Exp     float64 `json:"exp"`
	Message string  `json:"message"`
}
