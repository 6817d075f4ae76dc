package dto

type UpdateProfileRequest struct {
	AvatarID           *int    `json:"avatar_id" binding:"omitempty,min=0,max=20"`
	Language           *string `json:"language" binding:"omitempty,oneof=en es de fr"`
	EmailNotifications *bool   `json:"email_notifications"`
}

type SetBlockedRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}
