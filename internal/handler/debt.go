package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/debtfree/engine/internal/domain"
	"github.com/debtfree/engine/internal/service"
	customError "github.com/debtfree/engine/pkg/errors"
	"github.com/debtfree/engine/pkg/response"
)

type DebtHandler struct {
	service   *service.DebtService
	validator *validator.Validate
}

func NewDebtHandler(service *service.DebtService) *DebtHandler {
	return &DebtHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateDebt handles POST /debts
func (h *DebtHandler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	debt, schedule, err := h.service.CreateDebt(r.Context(), &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, &domain.CreateDebtResponse{Debt: debt, Schedule: schedule})
}

// ListDebts handles GET /debts?owner_id=
func (h *DebtHandler) ListDebts(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		response.BadRequest(w, "owner_id is required", nil)
		return
	}

	debts, err := h.service.ListDebts(r.Context(), ownerID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, debts)
}

// ListPayments handles GET /payments?owner_id=&status=
func (h *DebtHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		response.BadRequest(w, "owner_id is required", nil)
		return
	}

	payments, err := h.service.ListPayments(r.Context(), ownerID, r.URL.Query().Get("status"))
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, payments)
}

// GetDebt handles GET /debts/{debtId}
func (h *DebtHandler) GetDebt(w http.ResponseWriter, r *http.Request) {
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	debt, err := h.service.GetDebt(r.Context(), debtID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, debt)
}

// UpdateDebt handles PUT /debts/{debtId}
func (h *DebtHandler) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	var request domain.UpdateDebtTermsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	debt, schedule, err := h.service.UpdateDebtTerms(r.Context(), debtID, &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, &domain.CreateDebtResponse{Debt: debt, Schedule: schedule})
}

// DeleteDebt handles DELETE /debts/{debtId}
func (h *DebtHandler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteDebt(r.Context(), debtID); err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"deleted": debtID.String()})
}

// GetSchedule handles GET /debts/{debtId}/schedule
func (h *DebtHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), debtID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, &domain.ScheduleResponse{DebtID: debtID, Schedule: schedule})
}

// CompletePayment handles POST /debts/{debtId}/payments/{paymentId}/complete
func (h *DebtHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	paymentID, err := uuid.Parse(mux.Vars(r)["paymentId"])
	if err != nil {
		response.BadRequest(w, "invalid payment id", err)
		return
	}

	var request domain.CompletePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	payment, err := h.service.CompletePayment(r.Context(), debtID, paymentID, request.Amount)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, payment)
}

// GetProjection handles GET /debts/{debtId}/projection
func (h *DebtHandler) GetProjection(w http.ResponseWriter, r *http.Request) {
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	projection, err := h.service.GetProjection(r.Context(), debtID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, projection)
}

// GetCostBreakdown handles GET /debts/{debtId}/breakdown
func (h *DebtHandler) GetCostBreakdown(w http.ResponseWriter, r *http.Request) {
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	breakdown, err := h.service.GetCostBreakdown(r.Context(), debtID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, breakdown)
}

// GetMonthlyBreakdown handles GET /debts/{debtId}/breakdown/monthly?months=
func (h *DebtHandler) GetMonthlyBreakdown(w http.ResponseWriter, r *http.Request) {
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.BadRequest(w, "months must be a non-negative integer", err)
			return
		}
		months = parsed
	}

	entries, err := h.service.GetMonthlyBreakdown(r.Context(), debtID, months)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, entries)
}

// GetProgress handles GET /debts/{debtId}/progress
func (h *DebtHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	progress, err := h.service.GetProgress(r.Context(), debtID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, progress)
}

func (h *DebtHandler) debtID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	debtID, err := uuid.Parse(mux.Vars(r)["debtId"])
	if err != nil {
		response.BadRequest(w, "invalid debt id", err)
		return uuid.Nil, false
	}
	return debtID, true
}

// writeBusinessError maps service errors onto HTTP status codes.
func writeBusinessError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeDebtNotFound, customError.ErrCodePaymentNotFound:
		response.NotFound(w, businessErr.Message)
	case customError.ErrCodeInvalidDebtTerms, customError.ErrCodeInvalidPaymentAmount:
		response.BadRequest(w, businessErr.Message, businessErr.Err)
	case customError.ErrCodeUnpayableDebt, customError.ErrCodeScheduleNotConverged, customError.ErrCodePaymentAlreadyCompleted:
		response.UnprocessableEntity(w, businessErr.Message, businessErr.Err)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr.Err)
	}
}
