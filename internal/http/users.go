package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Clark-Hu/hotel-rating-services/internal/aggregation"
	"github.com/Clark-Hu/hotel-rating-services/internal/client"
	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
	"github.com/Clark-Hu/hotel-rating-services/internal/repository"
)

type userCreateRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	About string `json:"about" validate:"max=2000"`
}

type userResponse struct {
	ID      string           `json:"userId"`
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	About   string           `json:"about"`
	Ratings []ratingResponse `json:"ratings"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	trimSpace(&req.Name, &req.Email, &req.About)
	if !s.validated(w, &req) {
		return
	}

	user, err := s.users.Create(r.Context(), repository.UserCreateParams{
		Name:  req.Name,
		Email: req.Email,
		About: req.About,
	})
	if err != nil {
		s.logger.Printf("create user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/users/%s", url.PathEscape(user.ID)))
	s.respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathParam(r, "userId")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	user, err := s.enricher.GetEnrichedUser(r.Context(), userID)
	switch {
	case err == nil:
		if user.IsPlaceholder() {
			s.logger.Printf("served placeholder for user %s", userID)
		}
		s.respondJSON(w, http.StatusOK, toUserResponse(user))
	case errors.Is(err, aggregation.ErrUserNotFound):
		s.respondNotFound(w)
	case errors.Is(err, client.ErrUnavailable), errors.Is(err, client.ErrNotFound),
		errors.Is(err, context.DeadlineExceeded):
		s.logger.Printf("enrich user %s: %v", userID, err)
		s.respondError(w, http.StatusBadGateway, "DOWNSTREAM_UNAVAILABLE", "A dependent service could not answer")
	default:
		s.logger.Printf("enrich user %s error: %v", userID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch user")
	}
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.logger.Printf("list users error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}
	if len(users) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		About:   user.About,
		Ratings: toRatingResponses(user.Ratings),
	}
}
