package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paper-chat/backend/internal/domain"
	"github.com/paper-chat/backend/internal/usecase"
)

// PaperService is the slice of the paper usecase the handlers need.
type PaperService interface {
	Ingest(ctx context.Context, input string) (*domain.Paper, error)
	Get(ctx context.Context, id string) (*domain.Paper, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// ChatService is the slice of the chat usecase the handlers need.
type ChatService interface {
	Chat(ctx context.Context, paperID string, messages []domain.ChatMessage) (*domain.ChatMessage, error)
}

type Handler struct {
	papers PaperService
	chat   ChatService
	logger *slog.Logger
}

func NewHandler(papers PaperService, chat ChatService, logger *slog.Logger) *Handler {
	return &Handler{
		papers: papers,
		chat:   chat,
		logger: logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// Paper handlers

type scrapeRequest struct {
	URL string `json:"url"`
}

// paperSummary is the trimmed paper shape returned by the scrape endpoint;
// the full record (including content) is served by GET /paper/{id}.
type paperSummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	Categories []string `json:"categories"`
}

type scrapeResponse struct {
	Success bool         `json:"success"`
	PaperID string       `json:"paperId"`
	Paper   paperSummary `json:"paper"`
}

func (h *Handler) ScrapePaper(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	paper, err := h.papers.Ingest(r.Context(), req.URL)
	if errors.Is(err, usecase.ErrInvalidURL) {
		writeError(w, http.StatusBadRequest, "Invalid arXiv URL format")
		return
	}
	if err != nil {
		h.logger.Error("scrape failed", "url", req.URL, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, scrapeResponse{
		Success: true,
		PaperID: paper.ID,
		Paper: paperSummary{
			ID:         paper.ID,
			Title:      paper.Title,
			Authors:    paper.Authors,
			Abstract:   paper.Abstract,
			Categories: paper.Categories,
		},
	})
}

type paperResponse struct {
	Success bool          `json:"success"`
	Paper   *domain.Paper `json:"paper"`
}

func (h *Handler) GetPaper(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "id")
	if paperID == "" {
		writeError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	paper, err := h.papers.Get(r.Context(), paperID)
	if err != nil {
		h.logger.Error("paper lookup failed", "id", paperID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read paper")
		return
	}
	if paper == nil {
		writeError(w, http.StatusNotFound, "Paper not found")
		return
	}

	writeJSON(w, http.StatusOK, paperResponse{Success: true, Paper: paper})
}

type listPapersResponse struct {
	Success  bool     `json:"success"`
	PaperIDs []string `json:"paperIds"`
}

func (h *Handler) ListPapers(w http.ResponseWriter, r *http.Request) {
	ids, err := h.papers.ListIDs(r.Context())
	if err != nil {
		h.logger.Error("paper listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list papers")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, listPapersResponse{Success: true, PaperIDs: ids})
}

// Chat handlers

type chatRequest struct {
	PaperID  string               `json:"paperId"`
	Messages []domain.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PaperID == "" || req.Messages == nil {
		writeError(w, http.StatusBadRequest, "Paper ID and messages are required")
		return
	}

	msg, err := h.chat.Chat(r.Context(), req.PaperID, req.Messages)
	if errors.Is(err, usecase.ErrPaperNotFound) {
		writeError(w, http.StatusNotFound, "Paper not found")
		return
	}
	if err != nil {
		h.logger.Error("chat failed", "paperId", req.PaperID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Success: true, Response: msg.Content})
}
