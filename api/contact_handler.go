package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/services"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contact   *services.ContactService
}

func newContactHandler(contact *services.ContactService) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contact:   contact,
	}
}

// sendMessage forwards the contact form
// @Summary Send a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body services.ContactMessage true "Message"
// @Success 202 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /contact [post]
func (h contactHandler) sendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg services.ContactMessage
		if err := readJSON(w, r, "contact", &msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.contact.Send(r.Context(), msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusAccepted)
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "Message sent",
		})
	}
}
