package dto

import "vendorhub/internal/api/models"

// SendNotificationRequest: admin broadcast to a user, a set of users, or a
// whole role. Exactly one of user_id, user_ids, role must be set.
type SendNotificationRequest struct {
	UserID  string         `json:"user_id,omitempty"`
	UserIDs []string       `json:"user_ids,omitempty"`
	Role    string         `json:"role,omitempty"`
	Title   string         `json:"title" binding:"required"`
	Message string         `json:"message" binding:"required"`
	Type    string         `json:"type,omitempty"`
	Meta    models.JSONMap `json:"metadata,omitempty"`
}

// TargetCount reports how many targeting fields the request sets.
func (d SendNotificationRequest) TargetCount() int {
	count := 0
	if d.UserID != "" {
		count++
	}
	if len(d.UserIDs) > 0 {
		count++
	}
	if d.Role != "" {
		count++
	}
	return count
}
