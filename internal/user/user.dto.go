package user

// RegisterRequest carries the account fields plus the baseline
// self-assessment: a 1-5 satisfaction rating per domain key
// (physical, mental, career, relationships, finance, hobbies).
type RegisterRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Ratings  map[string]int `json:"ratings"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
