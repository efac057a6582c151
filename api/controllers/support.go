package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/api/middleware"
	"github.com/vastralabs/vastra-backend/api/responses"
	"github.com/vastralabs/vastra-backend/api/validators"
	supportsvc "github.com/vastralabs/vastra-backend/internal/support"
	"github.com/vastralabs/vastra-backend/internal/tracking"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

type supportPostRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

// SupportMessages lists the authenticated customer's own conversation.
func SupportMessages(svc supportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		messages, err := svc.List(r.Context(), userID, requesterRole(r), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, messages)
	}
}

// SupportPost appends a message to the customer's own conversation.
func SupportPost(svc supportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload supportPostRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Post(r.Context(), supportsvc.PostInput{
			SenderID:       userID,
			SenderRole:     requesterRole(r),
			ConversationID: userID,
			Body:           payload.Body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// SupportEvents streams new messages in the customer's conversation over SSE.
func SupportEvents(bus *tracking.Bus, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		streamSupport(w, r, bus, logg, userID)
	}
}

// AdminSupportMessages lists any conversation for the back office.
func AdminSupportMessages(svc supportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversationID, err := pathUUID(r, "conversationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		messages, err := svc.List(r.Context(), adminID, requesterRole(r), conversationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, messages)
	}
}

// AdminSupportReply posts an admin message into a customer's conversation.
func AdminSupportReply(svc supportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversationID, err := pathUUID(r, "conversationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload supportPostRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Post(r.Context(), supportsvc.PostInput{
			SenderID:       adminID,
			SenderRole:     requesterRole(r),
			ConversationID: conversationID,
			Body:           payload.Body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// AdminSupportEvents streams any conversation for the back office.
func AdminSupportEvents(bus *tracking.Bus, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID, err := pathUUID(r, "conversationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		streamSupport(w, r, bus, logg, conversationID)
	}
}

func streamSupport(w http.ResponseWriter, r *http.Request, bus *tracking.Bus, logg *logger.Logger, conversationID uuid.UUID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "streaming unsupported"))
		return
	}

	stream := bus.SubscribeSupport(r.Context(), conversationID)
	defer stream.Close()

	writeSSEHeaders(w)
	flusher.Flush()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case payload, open := <-stream.Payloads():
			if !open {
				return
			}
			writeSSEEvent(w, "message", payload)
			flusher.Flush()
		}
	}
}

func requesterRole(r *http.Request) enums.UserRole {
	return enums.UserRole(middleware.RoleFromContext(r.Context()))
}
