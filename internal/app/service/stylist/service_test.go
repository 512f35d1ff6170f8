package stylist

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/styler/internal/platform/genai"
	"github.com/fatflowers/styler/pkg/config"
)

type recordingClient struct {
	last  *genai.GenerateRequest
	reply string
	err   error
}

func (c *recordingClient) GenerateContent(_ context.Context, req *genai.GenerateRequest) (string, error) {
	c.last = req
	return c.reply, c.err
}

func newService(c genai.Client, maxHistory int) *Service {
	return New(c, &config.Config{GenAI: config.GenAIConfig{MaxHistory: maxHistory}}, zap.NewNop().Sugar())
}

func TestChat_WindowsHistory(t *testing.T) {
	client := &recordingClient{reply: "Pair it with white sneakers."}
	svc := newService(client, 3)

	history := make([]Turn, 0, 6)
	for i := 0; i < 6; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, Turn{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}

	res, err := svc.Chat(context.Background(), &ChatRequest{Message: "  what shoes?  ", History: history})
	require.NoError(t, err)
	require.Equal(t, "Pair it with white sneakers.", res.Reply)

	got := client.last.Contents
	require.Len(t, got, 4)
	require.Equal(t, "turn 3", got[0].Parts[0].Text)
	require.Equal(t, genai.RoleModel, got[0].Role)
	require.Equal(t, "turn 5", got[2].Parts[0].Text)
	require.Equal(t, genai.Content{Role: genai.RoleUser, Parts: []genai.Part{{Text: "what shoes?"}}}, got[3])
	require.NotEmpty(t, client.last.SystemInstruction.Parts[0].Text)
}

func TestChat_DefaultHistoryAndBlankTurns(t *testing.T) {
	client := &recordingClient{reply: "ok"}
	svc := newService(client, 0)
	require.Equal(t, defaultMaxHistory, svc.maxHistory)

	history := []Turn{{Role: "user", Content: " "}, {Role: "model", Content: "hello"}}
	_, err := svc.Chat(context.Background(), &ChatRequest{Message: "hi", History: history})
	require.NoError(t, err)
	require.Len(t, client.last.Contents, 2)
	require.Equal(t, genai.RoleModel, client.last.Contents[0].Role)
}

func TestChat_EmptyMessage(t *testing.T) {
	client := &recordingClient{}
	_, err := newService(client, 10).Chat(context.Background(), &ChatRequest{Message: "   "})
	require.True(t, errors.Is(err, ErrEmptyMessage))
	require.Nil(t, client.last)
}

func TestChat_UpstreamError(t *testing.T) {
	client := &recordingClient{err: fmt.Errorf("%w: quota", genai.ErrUpstream)}
	_, err := newService(client, 10).Chat(context.Background(), &ChatRequest{Message: "hi"})
	require.True(t, errors.Is(err, genai.ErrUpstream))
}
