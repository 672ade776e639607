package entity

// Session pairs the auth token with the authenticated user's profile.
// Token and User are either both set or both empty.
type Session struct {
	Token string   `json:"token,omitempty"`
	User  *Profile `json:"user,omitempty"`

	// Unverified marca uma sessão reidratada cuja validação não pôde ser concluída.
	Unverified bool `json:"-"`
}

// Active reports whether the session holds both a token and a profile.
func (s Session) Active() bool {
	return s.Token != "" && s.User != nil
}

// Email retorna o email do usuário ou "" quando não há sessão.
func (s Session) Email() string {
	if s.User == nil {
		return ""
	}
	return s.User.Email
}
