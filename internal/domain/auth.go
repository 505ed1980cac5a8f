package domain

// LoginRequest represents an admin login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
}
