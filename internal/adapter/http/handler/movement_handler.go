package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bancore/ledger/internal/adapter/http/dto"
	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
)

// MovementService defines the behavior needed by MovementHandler.
type MovementService interface {
	CreateMovement(ctx context.Context, input usecase.CreateMovementInput) (*domain.Movement, error)
	VoidMovement(ctx context.Context, movementID, reason, actor string) (*domain.Movement, error)
	CreateAdjustment(ctx context.Context, input usecase.CreateAdjustmentInput) (*domain.Movement, error)
	GetMovement(ctx context.Context, id string) (*domain.Movement, error)
	ListMovements(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error)
}

// MovementHandler handles movement-related HTTP requests.
type MovementHandler struct {
	movementUC MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movementUC MovementService) *MovementHandler {
	return &MovementHandler{movementUC: movementUC}
}

// Create records a new movement.
func (h *MovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.movementUC.CreateMovement(r.Context(), req.ToUseCaseInput(requestActor(r)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create movement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// Void voids a movement and returns the compensating movement.
func (h *MovementHandler) Void(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.VoidMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	compensating, err := h.movementUC.VoidMovement(r.Context(), id, req.Reason, requestActor(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to void movement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(compensating))
}

// CreateAdjustment records a manual balance adjustment.
func (h *MovementHandler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.movementUC.CreateAdjustment(r.Context(), req.ToUseCaseInput(requestActor(r)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create adjustment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// Get retrieves a movement by ID.
func (h *MovementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	movement, err := h.movementUC.GetMovement(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// ListByAccount lists movements of one account.
func (h *MovementHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	filter := domain.MovementFilter{
		AccountID: chi.URLParam(r, "id"),
		Kind:      domain.MovementKind(r.URL.Query().Get("kind")),
		Method:    domain.PaymentMethod(r.URL.Query().Get("method")),
		Status:    domain.MovementStatus(r.URL.Query().Get("status")),
		From:      parseTimeQuery(r, "from"),
		To:        parseTimeQuery(r, "to"),
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	movements, err := h.movementUC.ListMovements(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListMovementsResponse{
		Movements: dto.MovementsFromDomain(movements),
		Total:     int64(len(movements)),
	})
}
