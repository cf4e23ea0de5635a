package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/dispatch"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/schema"
)

// WebhookHandler ingests complaint submissions posted by the form frontend.
type WebhookHandler struct {
	registry  *schema.Registry
	publisher port.SubmissionPublisher
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(registry *schema.Registry, publisher port.SubmissionPublisher) *WebhookHandler {
	return &WebhookHandler{registry: registry, publisher: publisher}
}

// Receive handles POST /api/v1/webhook/submissions: it parses the dispatch
// payload, normalizes it, and runs the delivery pipeline synchronously.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "could not read request body")
		return
	}

	payload, err := dispatch.ParseEvent(body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}

	sub := payload.Submission(h.registry)
	result, err := h.publisher.Publish(c.Request.Context(), sub)
	if err != nil {
		log.Printf("webhook: publishing submission %s: %v", sub.ID, err)
		RespondError(c, http.StatusBadGateway, "DELIVERY_FAILED", "submission could not be delivered")
		return
	}

	RespondCreated(c, result)
}
