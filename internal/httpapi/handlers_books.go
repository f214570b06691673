package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bookly/internal/apierr"
	"bookly/internal/auth"
	"bookly/internal/models"
	"bookly/internal/service"
)

func (a *API) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := a.books.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, books)
}

type bookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher   string `json:"publisher"`
	PublishDate string `json:"publish_date"`
	PageCount   int    `json:"page_count"`
	Language    string `json:"language"`
}

func (req *bookRequest) validate() *apierr.Error {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)

	switch {
	case req.Title == "":
		return apierr.BadRequest("title is required")
	case req.Author == "":
		return apierr.BadRequest("author is required")
	case req.PageCount < 0:
		return apierr.BadRequest("page_count must not be negative")
	}
	if req.PublishDate != "" {
		if _, err := time.Parse("2006-01-02", req.PublishDate); err != nil {
			return apierr.BadRequest("publish_date must be in YYYY-MM-DD format")
		}
	}
	return nil
}

func (a *API) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		respondError(w, apiErr)
		return
	}

	book := models.Book{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishDate: req.PublishDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		owner := claims.Identity.UserID
		book.UserID = &owner
	}

	if err := a.books.Create(r.Context(), &book); err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, book)
}

// bookID parses the route parameter. An unparseable id reads as a book
// that does not exist.
func bookID(r *http.Request) (uuid.UUID, *apierr.Error) {
	id, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		return uuid.Nil, apierr.BookNotFound
	}
	return id, nil
}

func (a *API) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, apiErr := bookID(r)
	if apiErr != nil {
		respondError(w, apiErr)
		return
	}

	book, err := a.books.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, apierr.BookNotFound)
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}

type bookUpdateRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Publisher   *string `json:"publisher"`
	PublishDate *string `json:"publish_date"`
	PageCount   *int    `json:"page_count"`
	Language    *string `json:"language"`
}

func (req *bookUpdateRequest) changes() (map[string]any, *apierr.Error) {
	changes := map[string]any{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, apierr.BadRequest("title must not be empty")
		}
		changes["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		if strings.TrimSpace(*req.Author) == "" {
			return nil, apierr.BadRequest("author must not be empty")
		}
		changes["author"] = strings.TrimSpace(*req.Author)
	}
	if req.Publisher != nil {
		changes["publisher"] = *req.Publisher
	}
	if req.PublishDate != nil {
		if *req.PublishDate != "" {
			if _, err := time.Parse("2006-01-02", *req.PublishDate); err != nil {
				return nil, apierr.BadRequest("publish_date must be in YYYY-MM-DD format")
			}
		}
		changes["publish_date"] = *req.PublishDate
	}
	if req.PageCount != nil {
		if *req.PageCount < 0 {
			return nil, apierr.BadRequest("page_count must not be negative")
		}
		changes["page_count"] = *req.PageCount
	}
	if req.Language != nil {
		changes["language"] = *req.Language
	}
	if len(changes) == 0 {
		return nil, apierr.BadRequest("no fields to update")
	}
	return changes, nil
}

func (a *API) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, apiErr := bookID(r)
	if apiErr != nil {
		respondError(w, apiErr)
		return
	}

	var req bookUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	changes, apiErr := req.changes()
	if apiErr != nil {
		respondError(w, apiErr)
		return
	}

	book, err := a.books.Update(r.Context(), id, changes)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, apierr.BookNotFound)
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}

func (a *API) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, apiErr := bookID(r)
	if apiErr != nil {
		respondError(w, apiErr)
		return
	}

	if err := a.books.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, apierr.BookNotFound)
			return
		}
		respondInternal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
