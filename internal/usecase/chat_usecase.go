package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paper-chat/backend/internal/domain"
	"github.com/paper-chat/backend/pkg/aichat"
)

var ErrPaperNotFound = errors.New("paper not found")

// Completer forwards a conversation to the completion service.
type Completer interface {
	Complete(ctx context.Context, chat aichat.ChatRequest) (string, error)
}

type ChatUsecase struct {
	repo      domain.PaperRepository
	completer Completer
	logger    *slog.Logger
}

func NewChatUsecase(repo domain.PaperRepository, completer Completer, logger *slog.Logger) *ChatUsecase {
	return &ChatUsecase{
		repo:      repo,
		completer: completer,
		logger:    logger,
	}
}

// Chat loads the paper and forwards the client-side message history to the
// completion service with the paper's full text as context. The reply comes
// back as a fresh assistant message; nothing is persisted.
func (u *ChatUsecase) Chat(ctx context.Context, paperID string, messages []domain.ChatMessage) (*domain.ChatMessage, error) {
	paper, err := u.repo.Get(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("loading paper %s: %w", paperID, err)
	}
	if paper == nil {
		return nil, ErrPaperNotFound
	}

	reply, err := u.completer.Complete(ctx, aichat.ChatRequest{
		Messages:     messages,
		PaperTitle:   paper.Title,
		PaperContext: paper.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("completion for paper %s: %w", paperID, err)
	}

	u.logger.Info("chat turn completed", "paperId", paperID, "historyLen", len(messages))
	return &domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	}, nil
}
