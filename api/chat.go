package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/starcadet/relay/domain"
	"github.com/starcadet/relay/llm"
	"github.com/starcadet/relay/policy"
	"github.com/starcadet/relay/prompt"
)

// fallbackReply is substituted when a nominally successful completion carries
// no extractable text. The caller never receives an empty reply.
const fallbackReply = "Sorry, cadet, my circuits fizzled for a moment. Can you ask me that again?"

// safetyReply is returned when the safety policy blocks a message.
const safetyReply = "That's not something we chat about on this ship, cadet. Let's get back to our mission!"

// Chat relays one conversation turn to the completion provider.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ConversationID == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "conversationId and message required"})
	}

	if h.cfg.OpenAIAPIKey == "" {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "chat service is not configured"})
	}

	// Request ID for log correlation
	requestID := "chat_" + uuid.New().String()[:8]

	if h.policy != nil {
		decision, err := h.policy.Evaluate(ctx, map[string]any{
			"message":         req.Message,
			"conversation_id": req.ConversationID,
		})
		if err != nil {
			log.Printf("WARN: [%s] policy evaluation failed: %v", requestID, err)
		} else if decision == policy.DecisionBlock {
			log.Printf("WARN: [%s] message blocked by safety policy (conversation %s)", requestID, req.ConversationID)
			h.persistTurns(ctx, requestID, req.ConversationID, req.Message, safetyReply)
			return c.JSON(http.StatusOK, domain.ChatResponse{Reply: safetyReply})
		}
	}

	turns, err := h.store.Get(ctx, req.ConversationID)
	if err != nil {
		// A degraded history still beats a failed chat.
		log.Printf("WARN: [%s] failed to read history for %s: %v", requestID, req.ConversationID, err)
		turns = nil
	}

	budget := req.MaxCompletionTokens
	if budget <= 0 {
		budget = h.cfg.MaxCompletionTokens
	}

	completionReq := &llm.ChatCompletionRequest{
		Model:               h.cfg.Model,
		Messages:            prompt.Build(h.cfg.Persona, req.System, turns, req.Message),
		MaxCompletionTokens: budget,
	}

	if h.cfg.StreamReplies {
		return h.streamChat(c, requestID, &req, completionReq)
	}
	return h.batchChat(c, requestID, &req, completionReq)
}

// batchChat performs a single non-streaming completion call.
func (h *Handler) batchChat(c echo.Context, requestID string, req *domain.ChatRequest, completionReq *llm.ChatCompletionRequest) error {
	ctx := c.Request().Context()

	resp, err := h.client.CreateChatCompletion(ctx, completionReq)
	if err != nil {
		// No turns are persisted for a failed call: a ghost user-only turn
		// would poison every later prompt for this conversation.
		log.Printf("ERROR: [%s] completion request failed (conversation %s): %v", requestID, req.ConversationID, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "chat completion failed"})
	}

	reply := ""
	if len(resp.Choices) > 0 {
		reply = llm.Extract(&resp.Choices[0])
	}
	if reply == "" {
		raw, _ := json.Marshal(resp.Choices)
		log.Printf("ERROR: [%s] completion returned no extractable text (conversation %s): %s", requestID, req.ConversationID, raw)
		reply = fallbackReply
	}

	h.persistTurns(ctx, requestID, req.ConversationID, req.Message, reply)

	return c.JSON(http.StatusOK, domain.ChatResponse{Reply: reply})
}

// streamChat forwards completion fragments to the caller as they arrive, one
// JSON object per line, flushed per fragment.
func (h *Handler) streamChat(c echo.Context, requestID string, req *domain.ChatRequest, completionReq *llm.ChatCompletionRequest) error {
	ctx := c.Request().Context()

	c.Response().Header().Set(echo.HeaderContentType, "application/x-ndjson")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().WriteHeader(http.StatusOK)

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		log.Printf("ERROR: [%s] response writer does not support flushing", requestID)
		return nil
	}
	flusher.Flush()

	// json.Encoder terminates each Encode with a newline, which is exactly
	// the line-delimited wire format.
	enc := json.NewEncoder(c.Response().Writer)

	var full strings.Builder
	var writeErr error

	err := h.client.CreateChatCompletionStream(ctx, completionReq, func(chunk *llm.StreamChunk) error {
		for i := range chunk.Choices {
			frag := llm.ExtractDelta(&chunk.Choices[i])
			if frag == "" {
				continue
			}
			full.WriteString(frag)
			if encErr := enc.Encode(domain.ChatResponse{Reply: frag}); encErr != nil {
				writeErr = encErr
				return encErr
			}
			flusher.Flush()
		}
		return nil
	})

	if writeErr != nil {
		log.Printf("ERROR: [%s] stream write failed (conversation %s): %v", requestID, req.ConversationID, writeErr)
		return nil
	}

	if err != nil {
		// Headers and any earlier fragments are already out, so no structured
		// error can follow; the channel just ends early. Fragments the caller
		// did receive are persisted so history matches what was shown.
		log.Printf("ERROR: [%s] streaming completion failed (conversation %s): %v", requestID, req.ConversationID, err)
		if full.Len() > 0 {
			h.persistTurns(ctx, requestID, req.ConversationID, req.Message, full.String())
		}
		return nil
	}

	reply := full.String()
	if reply == "" {
		log.Printf("ERROR: [%s] streaming completion returned no text (conversation %s)", requestID, req.ConversationID)
		reply = fallbackReply
		if encErr := enc.Encode(domain.ChatResponse{Reply: reply}); encErr != nil {
			log.Printf("ERROR: [%s] stream write failed (conversation %s): %v", requestID, req.ConversationID, encErr)
			return nil
		}
		flusher.Flush()
	}

	h.persistTurns(ctx, requestID, req.ConversationID, req.Message, reply)
	return nil
}

// persistTurns appends the user and assistant turns best-effort. The caller
// already has the reply, so each failed append is logged and swallowed
// independently.
func (h *Handler) persistTurns(ctx context.Context, requestID, conversationID, userMessage, reply string) {
	if err := h.store.Push(ctx, conversationID, domain.Turn{Role: domain.RoleUser, Content: userMessage}); err != nil {
		log.Printf("WARN: [%s] failed to persist user turn for %s: %v", requestID, conversationID, err)
	}
	if err := h.store.Push(ctx, conversationID, domain.Turn{Role: domain.RoleAssistant, Content: reply}); err != nil {
		log.Printf("WARN: [%s] failed to persist assistant turn for %s: %v", requestID, conversationID, err)
	}
}

// GetHistory returns the stored turns for a conversation in append order.
// GET /api/chat/:conversationId
func (h *Handler) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()
	conversationID := c.Param("conversationId")

	turns, err := h.store.Get(ctx, conversationID)
	if err != nil {
		log.Printf("ERROR: failed to read history for %s: %v", conversationID, err)
		turns = nil
	}
	if turns == nil {
		turns = []domain.Turn{}
	}

	return c.JSON(http.StatusOK, turns)
}
