package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
	"github.com/Clark-Hu/hotel-rating-services/internal/repository"
)

type memStores struct {
	mu      sync.Mutex
	hotels  []domain.Hotel
	users   []domain.User
	ratings []domain.Rating
}

type memHotels struct{ *memStores }

func (m memHotels) Create(ctx context.Context, p repository.HotelCreateParams) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := domain.Hotel{ID: fmt.Sprintf("h-%d", len(m.hotels)+1), Name: p.Name, Location: p.Location, About: p.About}
	m.hotels = append(m.hotels, h)
	return h, nil
}

func (m memHotels) GetByID(ctx context.Context, id string) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.hotels {
		if h.ID == id {
			return h, nil
		}
	}
	return domain.Hotel{}, repository.ErrNotFound
}

func (m memHotels) List(ctx context.Context) ([]domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Hotel{}, m.hotels...), nil
}

type memUsers struct{ *memStores }

func (m memUsers) Create(ctx context.Context, p repository.UserCreateParams) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := domain.User{ID: fmt.Sprintf("u-%d", len(m.users)+1), Name: p.Name, Email: p.Email, About: p.About}
	m.users = append(m.users, u)
	return u, nil
}

func (m memUsers) List(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.User{}, m.users...), nil
}

type memRatings struct{ *memStores }

func (m memRatings) Create(ctx context.Context, p repository.RatingCreateParams) (domain.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := domain.Rating{ID: fmt.Sprintf("r-%d", len(m.ratings)+1), UserID: p.UserID, HotelID: p.HotelID, Score: p.Score, Feedback: p.Feedback}
	m.ratings = append(m.ratings, r)
	return r, nil
}

func (m memRatings) GetByID(ctx context.Context, id string) (domain.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.ratings {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Rating{}, repository.ErrNotFound
}

func (m memRatings) List(ctx context.Context) ([]domain.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Rating{}, m.ratings...), nil
}

func (m memRatings) ListByUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	return m.filter(func(r domain.Rating) bool { return r.UserID == userID }), nil
}

func (m memRatings) ListByHotel(ctx context.Context, hotelID string) ([]domain.Rating, error) {
	return m.filter(func(r domain.Rating) bool { return r.HotelID == hotelID }), nil
}

func (m memRatings) filter(keep func(domain.Rating) bool) []domain.Rating {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Rating
	for _, r := range m.ratings {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m memRatings) Update(ctx context.Context, id string, p repository.RatingUpdateParams) (domain.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.ratings {
		if r.ID == id {
			m.ratings[i].Score = p.Score
			m.ratings[i].Feedback = p.Feedback
			return m.ratings[i], nil
		}
	}
	return domain.Rating{}, repository.ErrNotFound
}

func (m memRatings) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.ratings {
		if r.ID == id {
			m.ratings = append(m.ratings[:i], m.ratings[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func newMemServer(authToken string) (http.Handler, *memStores) {
	stores := &memStores{}
	cfg := testConfig()
	cfg.AuthToken = authToken
	srv := New(cfg, nil, discardLogger(),
		WithHotels(memHotels{stores}),
		WithRatings(memRatings{stores}),
		WithUsers(memUsers{stores}, stubEnricher{}),
	)
	return srv.Handler(), stores
}

func serve(h http.Handler, method, path, body, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateWithNameOnly(t *testing.T) {
	h, _ := newMemServer("")

	hotelRec := serve(h, http.MethodPost, "/hotels", `{"name":"Grand"}`, "")
	if hotelRec.Code != http.StatusCreated {
		t.Fatalf("POST /hotels: status = %d, want 201 (%s)", hotelRec.Code, hotelRec.Body.String())
	}
	var hotel hotelResponse
	decodeBody(t, hotelRec, &hotel)
	if hotel.Name != "Grand" || hotel.Location != "" {
		t.Fatalf("unexpected hotel %+v", hotel)
	}

	userRec := serve(h, http.MethodPost, "/users", `{"name":"Alice"}`, "")
	if userRec.Code != http.StatusCreated {
		t.Fatalf("POST /users: status = %d, want 201 (%s)", userRec.Code, userRec.Body.String())
	}
	var user userResponse
	decodeBody(t, userRec, &user)
	if user.Name != "Alice" || user.Email != "" {
		t.Fatalf("unexpected user %+v", user)
	}

	for path, body := range map[string]string{
		"/hotels": `{"location":"Lisbon"}`,
		"/users":  `{"email":"alice@example.com"}`,
	} {
		rec := serve(h, http.MethodPost, path, body, "")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("POST %s without name: status = %d, want 422", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"field":"name"`) {
			t.Fatalf("POST %s: body %s does not name the missing field", path, rec.Body.String())
		}
	}
}

func TestGetRatingRoute(t *testing.T) {
	h, _ := newMemServer("")

	created := serve(h, http.MethodPost, "/ratings", `{"userId":"u-1","hotelId":"h-1","rating":4,"feedback":"nice"}`, "")
	if created.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", created.Code)
	}
	var rating ratingResponse
	decodeBody(t, created, &rating)

	rec := serve(h, http.MethodGet, "/ratings/"+rating.ID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET rating: status = %d, want 200", rec.Code)
	}
	var got ratingResponse
	decodeBody(t, rec, &got)
	if got != rating {
		t.Fatalf("GET rating = %+v, want %+v", got, rating)
	}

	if rec := serve(h, http.MethodGet, "/ratings/missing", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("GET missing rating: status = %d, want 404", rec.Code)
	}
}

func TestVerifyBearer(t *testing.T) {
	srv := &Server{}
	srv.cfg.AuthToken = "secret"
	cases := []struct {
		header  string
		allowed bool
	}{
		{"", false},
		{"Bearer secret", true},
		{"Bearer secret ", true},
		{"Bearer other", false},
		{"Basic secret", false},
		{"secret", false},
	}
	for _, c := range cases {
		if srv.verifyBearer(c.header) != c.allowed {
			t.Fatalf("verifyBearer(%q) expected %v", c.header, c.allowed)
		}
	}

	srv.cfg.AuthToken = ""
	if srv.verifyBearer("Bearer ") {
		t.Fatalf("verifyBearer must reject when no token is configured")
	}
}

func TestWriteRoutesRequireBearer(t *testing.T) {
	h, stores := newMemServer("secret")
	stores.ratings = append(stores.ratings, domain.Rating{ID: "r-1", UserID: "u-1", HotelID: "h-1", Score: 3})

	writes := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/hotels", `{"name":"Grand"}`, http.StatusCreated},
		{http.MethodPost, "/users", `{"name":"Alice"}`, http.StatusCreated},
		{http.MethodPost, "/ratings", `{"userId":"u-1","hotelId":"h-1","rating":4}`, http.StatusCreated},
		{http.MethodPut, "/ratings/r-1", `{"rating":5}`, http.StatusOK},
		{http.MethodDelete, "/ratings/r-1", "", http.StatusNoContent},
	}
	for _, w := range writes {
		for _, auth := range []string{"", "Bearer wrong"} {
			rec := serve(h, w.method, w.path, w.body, auth)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("%s %s with %q: status = %d, want 401", w.method, w.path, auth, rec.Code)
			}
			var body errorResponse
			decodeBody(t, rec, &body)
			if body.Code != "UNAUTHORIZED" {
				t.Fatalf("%s %s: code = %q, want UNAUTHORIZED", w.method, w.path, body.Code)
			}
		}
	}
	if len(stores.hotels) != 0 || len(stores.users) != 0 || len(stores.ratings) != 1 {
		t.Fatalf("rejected writes reached the stores: %+v", stores)
	}

	for _, w := range writes {
		if rec := serve(h, w.method, w.path, w.body, "Bearer secret"); rec.Code != w.want {
			t.Fatalf("%s %s authorized: status = %d, want %d (%s)", w.method, w.path, rec.Code, w.want, rec.Body.String())
		}
	}

	for _, path := range []string{"/hotels", "/users", "/ratings", "/ratings/user/u-1"} {
		if rec := serve(h, http.MethodGet, path, "", ""); rec.Code == http.StatusUnauthorized {
			t.Fatalf("GET %s must stay open, got 401", path)
		}
	}
}
