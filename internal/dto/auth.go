package dto

// IssueTokenRequest asks for a signed access token.
type IssueTokenRequest struct {
	Subject string `json:"subject" validate:"required"`
	Role    string `json:"role" validate:"required,oneof=SUPERADMIN ADMIN VIEWER"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   string `json:"expiresAt"`
}
