package handlers

import (
	"context"
	"log"

	"permata/pkg/chatai"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// chatFallbackReply is returned whenever the AI endpoint fails. The chat
// feature degrades to a canned response instead of surfacing an error.
const chatFallbackReply = "Sorry, I'm having trouble answering right now. Please try again in a moment."

const chatSystemPrompt = "You are a friendly shopping assistant for a jewelry store. " +
	"Help customers with questions about jewelry, sizes, care instructions, and orders. Keep answers short."

// ChatClient generates an assistant reply for a conversation.
type ChatClient interface {
	Complete(ctx context.Context, messages []chatai.Message) (string, error)
}

// ChatHandler handles HTTP requests for the shopping-assistant chat.
type ChatHandler struct {
	client   ChatClient
	validate *validator.Validate
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(client ChatClient) *ChatHandler {
	return &ChatHandler{
		client:   client,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the chat routes.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	chatRoutes := router.Group("/chat")
	chatRoutes.Post("/", h.HandleChat)
}

// ChatRequest represents the request body for a chat message.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// HandleChat forwards the user message to the AI endpoint and returns the
// reply. Failures return the fallback reply with a 200 status, because the
// chat screen should never block the user.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A message is required",
		})
	}

	reply, err := h.client.Complete(c.Context(), []chatai.Message{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "user", Content: req.Message},
	})
	if err != nil {
		log.Printf("Chat completion failed: %v", err)
		return c.JSON(fiber.Map{
			"reply":    chatFallbackReply,
			"degraded": true,
		})
	}

	return c.JSON(fiber.Map{
		"reply": reply,
	})
}
