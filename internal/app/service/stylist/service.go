// Package stylist proxies the in-app stylist chat to the generative model.
package stylist

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fatflowers/styler/internal/platform/genai"
	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/logctx"
)

var ErrEmptyMessage = errors.New("message is required")

const systemInstruction = `You are Styler, a friendly personal fashion stylist. ` +
	`Give concise, practical outfit advice based on the user's body shape, ` +
	`style preferences, occasion and climate when they share them. ` +
	`Suggest specific garments, colours and combinations, and ask a short ` +
	`follow-up question when important details are missing. ` +
	`Stay on the topic of clothing, accessories, grooming and personal style.`

const defaultMaxHistory = 10

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type Service struct {
	client     genai.Client
	maxHistory int
	log        *zap.SugaredLogger
}

func New(client genai.Client, cfg *config.Config, log *zap.SugaredLogger) *Service {
	n := cfg.GenAI.MaxHistory
	if n <= 0 {
		n = defaultMaxHistory
	}
	return &Service{client: client, maxHistory: n, log: log}
}

// Chat sends the last maxHistory turns plus the new message.
func (s *Service) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	contents := s.window(req.History)
	contents = append(contents, genai.Content{Role: genai.RoleUser, Parts: []genai.Part{{Text: message}}})

	reply, err := s.client.GenerateContent(ctx, &genai.GenerateRequest{
		SystemInstruction: &genai.Content{Parts: []genai.Part{{Text: systemInstruction}}},
		Contents:          contents,
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("stylist_chat_failed", "turns", len(contents), "error", err)
		return nil, err
	}
	return &ChatResponse{Reply: reply}, nil
}

// window keeps the most recent turns with text, mapping client roles onto
// the model's user/model roles.
func (s *Service) window(history []Turn) []genai.Content {
	turns := make([]genai.Content, 0, len(history))
	for _, t := range history {
		text := strings.TrimSpace(t.Content)
		if text == "" {
			continue
		}
		role := genai.RoleUser
		switch strings.ToLower(t.Role) {
		case "assistant", "model", "stylist":
			role = genai.RoleModel
		}
		turns = append(turns, genai.Content{Role: role, Parts: []genai.Part{{Text: text}}})
	}
	if len(turns) > s.maxHistory {
		turns = turns[len(turns)-s.maxHistory:]
	}
	return turns
}
