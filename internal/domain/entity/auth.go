package entity

// LoginRequest é o corpo enviado para /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest é o corpo enviado para /api/auth/register.
type RegisterRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	ContactName string `json:"contact_name"`
	Password    string `json:"password"`
}

// Subscription is the plan attached to a client account.
type Subscription struct {
	ID           int     `json:"id"`
	Tier         string  `json:"tier"`
	MonthlyPrice float64 `json:"monthly_price"`
	IsActive     bool    `json:"is_active"`
}

// AuthResponse is the success payload of login and registration.
type AuthResponse struct {
	Message      string        `json:"message,omitempty"`
	AccessToken  string        `json:"access_token"`
	Client       *Profile      `json:"client"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// ProfileResponse é o payload de /api/auth/profile.
type ProfileResponse struct {
	Client       *Profile      `json:"client"`
	Subscription *Subscription `json:"subscription,omitempty"`
}
