package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/pkg/enums"
)

// SupportMessage is one message in a customer/admin support conversation.
type SupportMessage struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ConversationID uuid.UUID      `gorm:"column:conversation_id;type:uuid;not null;index"`
	SenderID       uuid.UUID      `gorm:"column:sender_id;type:uuid;not null"`
	SenderRole     enums.UserRole `gorm:"column:sender_role;not null"`
	Body           string         `gorm:"column:body;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
}
