package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/services"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/go-chi/chi/v5"
)

type BlogService interface {
	List(ctx context.Context) ([]*models.Blog, error)
	View(ctx context.Context, slug string) (*models.Blog, error)
	Create(ctx context.Context, in models.BlogInput) (*models.Blog, error)
	Update(ctx context.Context, id string, in models.BlogInput) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
	React(ctx context.Context, userID, blogID string, kind models.Reaction) (*models.Blog, error)
	SetImage(ctx context.Context, id string, file services.Upload) (*models.Blog, error)
}

type BlogRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,uuid"`
	Author      *string `json:"author"`
}

func (req BlogRequest) input() models.BlogInput {
	return models.BlogInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.Category,
		Author:      req.Author,
	}
}

type ReactionRequest struct {
	BlogID string `json:"blogId" validate:"required,uuid"`
}

type BlogHandler struct {
	service BlogService
}

func NewBlogHandler(service BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"blogs": blogs})
}

// Get returns a blog by slug and counts the view
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	blog, err := h.service.View(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"blog": blog})
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BlogRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	blog, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"blog":    blog,
		"message": "Blog created successfully",
	})
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req BlogRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	blog, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"blog":    blog,
		"message": "Blog updated successfully",
	})
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Blog deleted successfully"})
}

func (h *BlogHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, models.ReactionLike)
}

func (h *BlogHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, models.ReactionDislike)
}

func (h *BlogHandler) react(w http.ResponseWriter, r *http.Request, kind models.Reaction) {
	user := auth.CurrentUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "not authorized, please login")
		return
	}

	var req ReactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	blog, err := h.service.React(r.Context(), user.ID, req.BlogID, kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"blog": blog})
}

// UploadImage sets the blog cover from multipart "image"
// @Router /blog/{id}/image [post]
func (h *BlogHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	files, release, err := openUploads(w, r, "image", 1)
	defer release()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	blog, err := h.service.SetImage(r.Context(), chi.URLParam(r, "id"), files[0])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"blog":    blog,
		"message": "Image uploaded successfully",
	})
}
