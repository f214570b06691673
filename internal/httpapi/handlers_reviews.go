package httpapi

import (
	"errors"
	"net/http"

	"bookly/internal/apierr"
	"bookly/internal/auth"
	"bookly/internal/service"
)

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"review_text"`
}

func (a *API) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, apierr.InvalidToken)
		return
	}

	id, apiErr := bookID(r)
	if apiErr != nil {
		respondError(w, apiErr)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(w, apierr.BadRequest("rating must be between 1 and 5"))
		return
	}

	review, err := a.reviews.Add(r.Context(), user.ID, id, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, apierr.BookNotFound)
			return
		}
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, review)
}
