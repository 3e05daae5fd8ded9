package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
	"github.com/Clark-Hu/hotel-rating-services/internal/repository"
)

type ratingCreateRequest struct {
	UserID   string `json:"userId" validate:"required"`
	HotelID  string `json:"hotelId" validate:"required"`
	Score    int    `json:"rating" validate:"gte=1,lte=5"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

type ratingUpdateRequest struct {
	Score    int    `json:"rating" validate:"gte=1,lte=5"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

type ratingResponse struct {
	ID       string         `json:"ratingId"`
	UserID   string         `json:"userId"`
	HotelID  string         `json:"hotelId"`
	Score    int            `json:"rating"`
	Feedback string         `json:"feedback"`
	Hotel    *hotelResponse `json:"hotel,omitempty"`
}

func (s *Server) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	var req ratingCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	trimSpace(&req.UserID, &req.HotelID, &req.Feedback)
	if !s.validated(w, &req) {
		return
	}

	rating, err := s.ratings.Create(r.Context(), repository.RatingCreateParams{
		UserID:   req.UserID,
		HotelID:  req.HotelID,
		Score:    req.Score,
		Feedback: req.Feedback,
	})
	if err != nil {
		s.logger.Printf("create rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create rating")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/ratings/%s", url.PathEscape(rating.ID)))
	s.respondJSON(w, http.StatusCreated, toRatingResponse(rating))
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "ratingId")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	rating, err := s.ratings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondNotFound(w)
			return
		}
		s.logger.Printf("get rating %s error: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch rating")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponse(rating))
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.ratings.List(r.Context())
	if err != nil {
		s.logger.Printf("list ratings error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list ratings")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponses(ratings))
}

func (s *Server) handleListRatingsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathParam(r, "userId")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	ratings, err := s.ratings.ListByUser(r.Context(), userID)
	if err != nil {
		s.logger.Printf("list ratings for user %s error: %v", userID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list ratings")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponses(ratings))
}

func (s *Server) handleListRatingsByHotel(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathParam(r, "hotelId")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	ratings, err := s.ratings.ListByHotel(r.Context(), hotelID)
	if err != nil {
		s.logger.Printf("list ratings for hotel %s error: %v", hotelID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list ratings")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponses(ratings))
}

func (s *Server) handleUpdateRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "ratingId")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req ratingUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	trimSpace(&req.Feedback)
	if !s.validated(w, &req) {
		return
	}

	rating, err := s.ratings.Update(r.Context(), id, repository.RatingUpdateParams{
		Score:    req.Score,
		Feedback: req.Feedback,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondNotFound(w)
			return
		}
		s.logger.Printf("update rating %s error: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update rating")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponse(rating))
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "ratingId")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if err := s.ratings.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondNotFound(w)
			return
		}
		s.logger.Printf("delete rating %s error: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete rating")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toRatingResponse(rating domain.Rating) ratingResponse {
	resp := ratingResponse{
		ID:       rating.ID,
		UserID:   rating.UserID,
		HotelID:  rating.HotelID,
		Score:    rating.Score,
		Feedback: rating.Feedback,
	}
	if rating.Hotel != nil {
		hotel := toHotelResponse(*rating.Hotel)
		resp.Hotel = &hotel
	}
	return resp
}

func toRatingResponses(ratings []domain.Rating) []ratingResponse {
	items := make([]ratingResponse, 0, len(ratings))
	for _, rating := range ratings {
		items = append(items, toRatingResponse(rating))
	}
	return items
}
