// Package support implements the minimal customer chat: a flat message log
// per conversation, streamed live over the event bus. A customer's
// conversation id is their own user id, so admins reply by customer.
package support

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

const maxBodyLen = 4000

// PostInput is one new chat message.
type PostInput struct {
	SenderID       uuid.UUID
	SenderRole     enums.UserRole
	ConversationID uuid.UUID
	Body           string `json:"body" validate:"required,max=4000"`
}

// MessageEvent is the wire shape broadcast on the conversation stream.
type MessageEvent struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	SenderID       string         `json:"sender_id"`
	SenderRole     enums.UserRole `json:"sender_role"`
	Body           string         `json:"body"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Repository defines persistence for support messages.
type Repository interface {
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.SupportMessage, error)
	Create(ctx context.Context, message *models.SupportMessage) (*models.SupportMessage, error)
}

// MessagePublisher pushes a stored message onto the conversation's live stream.
type MessagePublisher interface {
	PublishSupportMessage(ctx context.Context, conversationID uuid.UUID, payload []byte) error
}

// Service exposes the chat operations.
type Service interface {
	Post(ctx context.Context, input PostInput) (*models.SupportMessage, error)
	List(ctx context.Context, requesterID uuid.UUID, requesterRole enums.UserRole, conversationID uuid.UUID) ([]models.SupportMessage, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a support message repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.SupportMessage, error) {
	var rows []models.SupportMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Create(ctx context.Context, message *models.SupportMessage) (*models.SupportMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

type service struct {
	repo      Repository
	publisher MessagePublisher
	logg      *logger.Logger
}

// NewService builds the support chat service.
func NewService(repo Repository, publisher MessagePublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("support repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("message publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, publisher: publisher, logg: logg}, nil
}

func (s *service) Post(ctx context.Context, input PostInput) (*models.SupportMessage, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "message body is required")
	}
	if len(body) > maxBodyLen {
		return nil, apperrors.New(apperrors.CodeValidation, "message body too long")
	}

	conversationID := input.ConversationID
	if !input.SenderRole.IsAdmin() {
		// customers can only write to their own conversation
		conversationID = input.SenderID
	} else if conversationID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "conversation id is required")
	}

	message := &models.SupportMessage{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       input.SenderID,
		SenderRole:     input.SenderRole,
		Body:           body,
	}
	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "storing support message")
	}

	if payload, err := json.Marshal(MessageEvent{
		ID:             created.ID.String(),
		ConversationID: created.ConversationID.String(),
		SenderID:       created.SenderID.String(),
		SenderRole:     created.SenderRole,
		Body:           created.Body,
		CreatedAt:      created.CreatedAt,
	}); err == nil {
		if err := s.publisher.PublishSupportMessage(ctx, conversationID, payload); err != nil {
			s.logg.Warn(ctx, "publishing support message failed")
		}
	}
	return created, nil
}

func (s *service) List(ctx context.Context, requesterID uuid.UUID, requesterRole enums.UserRole, conversationID uuid.UUID) ([]models.SupportMessage, error) {
	if !requesterRole.IsAdmin() && conversationID != requesterID {
		return nil, apperrors.New(apperrors.CodeForbidden, "not your conversation")
	}

	rows, err := s.repo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing support messages")
	}
	return rows, nil
}
