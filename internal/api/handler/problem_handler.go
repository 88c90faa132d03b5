package handler

import (
	"net/http"

	"sql_arena/internal/api/middleware"
	"sql_arena/internal/app/service"
	"sql_arena/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(ps *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: ps}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)          // GET /api/problems
	r.Get("/{problemID}", h.getProblem) // GET /api/problems/{id}
}

// listProblems is a soft-auth route: a valid token adds isUserSolved to each
// problem, a missing or invalid one degrades to the anonymous listing.
func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	difficulty := r.URL.Query().Get("difficulty")
	userID := middleware.SoftUserID(r)

	problems, err := h.problemService.List(r.Context(), difficulty, userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Failed to fetch problems")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")

	problem, err := h.problemService.Get(r.Context(), problemID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Problem not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}
