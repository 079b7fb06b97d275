package handlers

import (
	"net/http"

	"github.com/ThinhDang464/Tomchat/internal/services"
	"github.com/ThinhDang464/Tomchat/pkg/logger"
	"github.com/ThinhDang464/Tomchat/pkg/middleware"
)

// ChatHandler mints Stream tokens for the frontend chat/video SDK.
type ChatHandler struct {
	Service *services.ChatService
}

// NewChatHandler initializes a new ChatHandler. Service may be nil when
// Stream credentials are not configured.
func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{Service: service}
}

// GetStreamTokenHandler returns a Stream token for the authenticated user.
func (h *ChatHandler) GetStreamTokenHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if h.Service == nil {
		respondError(w, http.StatusInternalServerError, "Chat service unavailable")
		return
	}

	token, err := h.Service.CreateToken(claims.UserID)
	if err != nil {
		logger.Log.Errorf("Failed to create stream token for %s: %v", claims.UserID, err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}
