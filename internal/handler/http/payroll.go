package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Recalculation
	Recalculate(w http.ResponseWriter, r *http.Request)
	PreviewRecalculation(w http.ResponseWriter, r *http.Request)

	// Reporting
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetTimesheet(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== RECALCULATION ==========

func (h *payrollHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, err := decodeRecalculateRequest(r)
	if err != nil {
		slog.Error("Failed to decode recalculate request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Recalculate(r.Context(), principal, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, recalculationMessage(result), result)
}

func (h *payrollHandlerImpl) PreviewRecalculation(w http.ResponseWriter, r *http.Request) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, err := decodeRecalculateRequest(r)
	if err != nil {
		slog.Error("Failed to decode recalculate preview request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Preview(r.Context(), principal, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Preview only, nothing was saved", result)
}

// decodeRecalculateRequest accepts an empty body as "every line".
func decodeRecalculateRequest(r *http.Request) (payroll.RecalculateRequest, error) {
	var req payroll.RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}

func recalculationMessage(result payroll.RecalculateResponse) string {
	skipped := 0
	for _, res := range result.Results {
		if !res.OK {
			skipped++
		}
	}
	if skipped == 0 {
		return fmt.Sprintf("%d payroll lines recalculated", result.Count)
	}
	return fmt.Sprintf("%d payroll lines recalculated, %d skipped", result.Count, skipped)
}

// ========== REPORTING ==========

func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Summary(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Timesheet(r.Context(), principal, chi.URLParam(r, "id"), chi.URLParam(r, "lineId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
