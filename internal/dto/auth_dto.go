package dto

import "golazo.app/penaltyduel/internal/model"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	AvatarID int    `json:"avatar_id" binding:"omitempty,min=0,max=20"`
	Language string `json:"language" binding:"omitempty,oneof=en es de fr"`
	// InviteToken links the new account to the challenge it was invited to.
	InviteToken string `json:"invite_token" binding:"omitempty,len=24"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
	// ClaimedMatches is how many pending invitations were attached to the
	// freshly registered account.
	ClaimedMatches int64 `json:"claimed_matches,omitempty"`
}
