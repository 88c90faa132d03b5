package handler

import (
	"encoding/json"
	"net/http"

	"sql_arena/internal/api/middleware"
	"sql_arena/internal/app/service"
	"sql_arena/internal/common"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	validate          *validator.Validate
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss, validate: validator.New()}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // all submission routes require auth
	r.Post("/", h.createSubmission)
	r.Get("/user/{userID}", h.listUserSubmissions)
}

func (h *SubmissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission data: "+err.Error())
		return
	}

	result, err := h.submissionService.Submit(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, http.StatusInternalServerError, "Failed to submit solution")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SubmissionHandler) listUserSubmissions(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	userID := chi.URLParam(r, "userID")

	submissions, err := h.submissionService.ListUserSubmissions(r.Context(), requesterID, userID)
	if err != nil {
		status := common.HTTPStatusFromError(err)
		message := "Failed to fetch submissions"
		if status == http.StatusForbidden {
			message = "Access denied"
		}
		common.RespondWithError(w, status, message)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}
