package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type PostHandler struct {
	postService services.PostService
}

func NewPostHandler(ps services.PostService) *PostHandler {
	return &PostHandler{postService: ps}
}

// ListHandler godoc
// @Summary Все сообщения форума, новые первыми
// @Tags posts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /posts [get]
func (h *PostHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPosts(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"posts": posts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateHandler godoc
// @Summary Добавить сообщение (разметка очищается перед сохранением)
// @Tags posts
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /posts [post]
func (h *PostHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Content *string `json:"content"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Content == nil {
		badRequestResponse(w, r, errors.New("body must contain a content key"))
		return
	}

	post, err := h.postService.AddPost(r.Context(), *input.Content)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
