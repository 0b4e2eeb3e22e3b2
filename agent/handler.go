package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/foodiesthlm/foodie-backend/config"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory/sqlite3"
)

const fallbackResponse = "I apologize, but I'm having trouble processing your request. Please try again or ask for human assistance."

const menuUnavailable = "Menu data temporarily unavailable"

type Handler struct {
	pg        *Pg
	llm       llms.Model
	events    *NatsClient
	cfg       *config.Config
	cache     *menuCache
	historyDB *sql.DB
}

func NewHandler(cfg *config.Config, db *Pg, llm llms.Model, events *NatsClient, historyDB *sql.DB) (*Handler, error) {
	return &Handler{
		pg:        db,
		llm:       llm,
		events:    events,
		cfg:       cfg,
		cache:     &menuCache{},
		historyDB: historyDB,
	}, nil
}

// ProcessQuery answers one chat turn: canned shortcut first, otherwise the
// full prompt assembly and model call. Failures never propagate; the caller
// always gets a response.
func (h *Handler) ProcessQuery(ctx context.Context, query, conversationID, userID string) *ChatResponse {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if response, ok := QuickResponse(query); ok {
		h.recordTurn(ctx, conversationID, query, response)
		return &ChatResponse{
			Response:       response,
			ConversationID: conversationID,
			UserID:         userID,
			Intent:         IntentGeneral,
			ToolCalls:      []ToolCall{},
		}
	}

	primary, detected := DetectIntent(query)
	slog.Info("intent detected", "primary", primary, "intents", detected)

	response, err := h.generate(ctx, query, conversationID, nil)
	if err != nil {
		slog.Error("agent processing error", "error", err)
		return &ChatResponse{
			Response:       fallbackResponse,
			ConversationID: conversationID,
			UserID:         userID,
			Intent:         IntentError,
			ToolCalls:      []ToolCall{},
		}
	}

	h.recordTurn(ctx, conversationID, query, response)

	return &ChatResponse{
		Response:       response,
		ConversationID: conversationID,
		UserID:         userID,
		Intent:         primary,
		ToolCalls:      extractToolCalls(detected),
	}
}

// StreamQuery is the websocket variant. Model chunks stream through the
// returned channel; the final element carries io.EOF.
func (h *Handler) StreamQuery(ctx context.Context, query, conversationID, userID string) chan *ProcessingResult {
	resultChan := make(chan *ProcessingResult)

	go func() {
		defer close(resultChan)

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		if conversationID == "" {
			conversationID = uuid.NewString()
		}

		if response, ok := QuickResponse(query); ok {
			h.recordTurn(ctx, conversationID, query, response)
			resultChan <- &ProcessingResult{
				Msg: WebSocketsMessage{Type: "chat", Data: response},
			}
			resultChan <- &ProcessingResult{Err: io.EOF}
			return
		}

		primary, detected := DetectIntent(query)

		response, err := h.generate(ctx, query, conversationID, func(chunk []byte) error {
			resultChan <- &ProcessingResult{
				Msg: WebSocketsMessage{Type: "chat", Data: string(chunk)},
			}
			return nil
		})
		if err != nil {
			slog.Error("agent processing error", "error", err)
			resultChan <- &ProcessingResult{
				Msg: WebSocketsMessage{Type: "chat", Data: fallbackResponse},
			}
			resultChan <- &ProcessingResult{Err: io.EOF}
			return
		}

		h.recordTurn(ctx, conversationID, query, response)

		resultChan <- &ProcessingResult{
			Msg: WebSocketsMessage{
				Type: "result",
				Data: &ChatResponse{
					Response:       response,
					ConversationID: conversationID,
					UserID:         userID,
					Intent:         primary,
					ToolCalls:      extractToolCalls(detected),
				},
			},
		}
		resultChan <- &ProcessingResult{Err: io.EOF}
	}()

	return resultChan
}

func (h *Handler) generate(
	ctx context.Context,
	query, conversationID string,
	streamFunc func(chunk []byte) error,
) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt(h.cfg.Restaurant.Name, h.menuContext(ctx)))},
		},
	}
	messages = append(messages, h.historyMessages(ctx, conversationID)...)
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(query)},
	})

	opts := []llms.CallOption{
		llms.WithTemperature(h.cfg.OpenAI.Temperature),
		llms.WithMaxTokens(h.cfg.OpenAI.MaxTokens),
	}
	if streamFunc != nil {
		opts = append(opts, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return streamFunc(chunk)
		}))
	}

	content, err := h.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if len(content.Choices) == 0 {
		return "", io.ErrUnexpectedEOF
	}

	return content.Choices[0].Content, nil
}

// menuContext returns the rendered menu for the system prompt, cached until
// the cdc service reports a staff edit.
func (h *Handler) menuContext(ctx context.Context) string {
	if cached, ok := h.cache.Get(); ok {
		return cached
	}

	items, err := h.pg.ListMenuItems(ctx)
	if err != nil {
		slog.Error("failed to get menu context", "error", err)
		return menuUnavailable
	}

	rendered := buildMenuContext(groupByCategory(items))
	h.cache.Set(rendered)

	return rendered
}

// historyMessages loads at most the last historyWindow turns of the
// conversation.
func (h *Handler) historyMessages(ctx context.Context, conversationID string) []llms.MessageContent {
	if h.historyDB == nil {
		return nil
	}

	history := sqlite3.NewSqliteChatMessageHistory(
		sqlite3.WithSession(conversationID),
		sqlite3.WithDB(h.historyDB),
	)

	stored, err := history.Messages(ctx)
	if err != nil {
		slog.Error("failed to load chat history", "conversation_id", conversationID, "error", err)
		return nil
	}

	window := h.cfg.Chat.HistoryWindow
	if window <= 0 {
		window = 5
	}
	if len(stored) > window {
		stored = stored[len(stored)-window:]
	}

	messages := make([]llms.MessageContent, 0, len(stored))
	for _, msg := range stored {
		role := llms.ChatMessageTypeHuman
		if msg.GetType() == llms.ChatMessageTypeAI {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.GetContent())},
		})
	}

	return messages
}

func (h *Handler) recordTurn(ctx context.Context, conversationID, query, response string) {
	if h.historyDB == nil {
		return
	}

	history := sqlite3.NewSqliteChatMessageHistory(
		sqlite3.WithSession(conversationID),
		sqlite3.WithDB(h.historyDB),
	)

	if err := history.AddUserMessage(ctx, query); err != nil {
		slog.Error("failed to record user message", "conversation_id", conversationID, "error", err)
		return
	}
	if err := history.AddAIMessage(ctx, response); err != nil {
		slog.Error("failed to record assistant message", "conversation_id", conversationID, "error", err)
	}
}
