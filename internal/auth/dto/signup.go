package dto

type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}
