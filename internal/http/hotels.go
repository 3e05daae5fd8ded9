package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
	"github.com/Clark-Hu/hotel-rating-services/internal/repository"
)

type hotelCreateRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"max=200"`
	About    string `json:"about" validate:"max=2000"`
}

type hotelResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	About    string `json:"about"`
}

func (s *Server) handleCreateHotel(w http.ResponseWriter, r *http.Request) {
	var req hotelCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	trimSpace(&req.Name, &req.Location, &req.About)
	if !s.validated(w, &req) {
		return
	}

	hotel, err := s.hotels.Create(r.Context(), repository.HotelCreateParams{
		Name:     req.Name,
		Location: req.Location,
		About:    req.About,
	})
	if err != nil {
		s.logger.Printf("create hotel error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create hotel")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/hotels/%s", url.PathEscape(hotel.ID)))
	s.respondJSON(w, http.StatusCreated, toHotelResponse(hotel))
}

func (s *Server) handleGetHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	hotel, err := s.hotels.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondNotFound(w)
			return
		}
		s.logger.Printf("get hotel %s error: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch hotel")
		return
	}
	s.respondJSON(w, http.StatusOK, toHotelResponse(hotel))
}

func (s *Server) handleListHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := s.hotels.List(r.Context())
	if err != nil {
		s.logger.Printf("list hotels error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list hotels")
		return
	}

	items := make([]hotelResponse, 0, len(hotels))
	for _, h := range hotels {
		items = append(items, toHotelResponse(h))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	return hotelResponse{
		ID:       h.ID,
		Name:     h.Name,
		Location: h.Location,
		About:    h.About,
	}
}
