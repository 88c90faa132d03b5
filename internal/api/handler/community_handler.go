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

type CommunityHandler struct {
	communityService *service.CommunityService
	validate         *validator.Validate
}

func NewCommunityHandler(cs *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: cs, validate: validator.New()}
}

func (h *CommunityHandler) RegisterRoutes(r chi.Router) {
	r.Get("/posts", h.listPosts)
	r.Get("/posts/{postID}/comments", h.listComments)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Post("/posts", h.createPost)
		protected.Post("/posts/{postID}/like", h.likePost)
		protected.Delete("/posts/{postID}/like", h.unlikePost)
		protected.Post("/posts/{postID}/comments", h.createComment)
	})
}

func (h *CommunityHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.communityService.ListPosts(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Failed to fetch community posts")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, posts)
}

func (h *CommunityHandler) createPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post data: "+err.Error())
		return
	}

	post, err := h.communityService.CreatePost(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Failed to create post")
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, post)
}

func (h *CommunityHandler) likePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	postID := chi.URLParam(r, "postID")

	if err := h.communityService.LikePost(r.Context(), userID, postID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Post liked successfully"})
}

func (h *CommunityHandler) unlikePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	postID := chi.URLParam(r, "postID")

	if err := h.communityService.UnlikePost(r.Context(), userID, postID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Post unliked successfully"})
}

func (h *CommunityHandler) listComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	comments, err := h.communityService.ListComments(r.Context(), postID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Failed to fetch comments")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comments)
}

func (h *CommunityHandler) createComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	postID := chi.URLParam(r, "postID")

	var req service.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid comment data: "+err.Error())
		return
	}

	comment, err := h.communityService.CreateComment(r.Context(), userID, postID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Failed to create comment")
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, comment)
}
