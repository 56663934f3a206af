package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmartell/postboard-be/internal/auth"
	"github.com/jmartell/postboard-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// PostPayload is the request body for creating and updating posts.
type PostPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create persists a new post owned by the authenticated user.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "could not retrieve user from token")
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.service.CreatePost(claims.UserID, payload.Title, payload.Content)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeMessage(w, http.StatusBadRequest, "title and content are required")
		return
	case err != nil:
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create post")
		writeMessage(w, http.StatusInternalServerError, "error creating post")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// GetAll returns every post with author usernames resolved.
func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.GetAllPosts()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		writeMessage(w, http.StatusInternalServerError, "error fetching posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// Update replaces the title and content of the post with the given id.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.service.UpdatePost(id, payload.Title, payload.Content)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeMessage(w, http.StatusBadRequest, "title and content are required")
		return
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "post not found")
		return
	case err != nil:
		log.Error().Err(err).Str("post_id", id).Msg("Failed to update post")
		writeMessage(w, http.StatusInternalServerError, "error updating post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Delete removes the post with the given id.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeletePost(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "post not found")
			return
		}
		log.Error().Err(err).Str("post_id", id).Msg("Failed to delete post")
		writeMessage(w, http.StatusInternalServerError, "error deleting post")
		return
	}

	writeMessage(w, http.StatusOK, "post deleted")
}
