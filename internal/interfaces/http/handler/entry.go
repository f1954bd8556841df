package handler

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	ledgerapp "github.com/voiceledger/backend/internal/application/ledger"
	domain "github.com/voiceledger/backend/internal/domain/ledger"
	"github.com/voiceledger/backend/internal/interfaces/http/dto"
)

// minAmount is the smallest recordable amount
var minAmount = decimal.RequireFromString("0.01")

// EntryRecorder runs the full pipeline for one extracted voice entry
type EntryRecorder interface {
	RecordEntry(ctx context.Context, cmd ledgerapp.RecordEntryCommand) (*ledgerapp.EntryResult, error)
}

// EntryHandler is the inbound surface for the entity-extraction
// collaborator. It admits or rejects a request before any side effect:
// owner identity first, then field presence, then value ranges.
type EntryHandler struct {
	BaseHandler
	recorder EntryRecorder
	ceiling  decimal.Decimal
	logger   *zap.Logger
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(recorder EntryRecorder, ceiling decimal.Decimal, logger *zap.Logger) *EntryHandler {
	return &EntryHandler{
		recorder: recorder,
		ceiling:  ceiling,
		logger:   logger,
	}
}

// EntryRequest is the payload produced by the extraction collaborator.
// Amount is a string so precision survives the wire; Audio is an
// optional base64-encoded clip archived as evidence.
type EntryRequest struct {
	Name       string   `json:"name"`
	Amount     string   `json:"amount"`
	Kind       string   `json:"kind"`
	Transcript string   `json:"transcript"`
	AudioRef   *string  `json:"audio_ref,omitempty"`
	Audio      string   `json:"audio,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// RegisterRoutes registers entry routes
func (h *EntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")
	{
		ledger.POST("/entries", h.RecordEntry)
	}
}

// RecordEntry handles POST /ledger/entries
func (h *EntryHandler) RecordEntry(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		h.BadRequestField(c, "name", "Customer name is required")
		return
	}

	if strings.TrimSpace(req.Amount) == "" {
		h.BadRequestField(c, "amount", "Amount is required")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.BadRequestField(c, "amount", "Amount is not a valid number")
		return
	}

	kind := domain.TransactionKind(strings.ToUpper(strings.TrimSpace(req.Kind)))
	if !kind.IsValid() {
		h.BadRequestField(c, "kind", "Kind must be CREDIT or PAYMENT")
		return
	}

	if amount.LessThan(minAmount) || amount.GreaterThan(h.ceiling) {
		h.UnprocessableEntity(c, dto.ErrCodeUnprocessableAmount,
			"Amount must be between 0.01 and "+h.ceiling.String())
		return
	}

	// Out-of-range confidence is rejected, not clamped, so the stored
	// score keeps its audit meaning. An absent score reads as zero and
	// the entry stays unverified.
	confidence := 0.0
	if req.Confidence != nil {
		if *req.Confidence < 0 || *req.Confidence > 1 {
			h.BadRequestField(c, "confidence", "Confidence must be between 0 and 1")
			return
		}
		confidence = *req.Confidence
	}

	var audio []byte
	if req.Audio != "" {
		audio, err = base64.StdEncoding.DecodeString(req.Audio)
		if err != nil {
			h.BadRequestField(c, "audio", "Audio must be base64 encoded")
			return
		}
	}

	result, err := h.recorder.RecordEntry(c.Request.Context(), ledgerapp.RecordEntryCommand{
		OwnerID:    ownerID,
		Name:       strings.TrimSpace(req.Name),
		Kind:       kind,
		Amount:     amount,
		Transcript: req.Transcript,
		Audio:      audio,
		AudioRef:   req.AudioRef,
		Confidence: confidence,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
