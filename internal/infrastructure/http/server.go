package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"tjrates-service/internal/application"
	"tjrates-service/internal/cities"
	"tjrates-service/internal/domain"
	"tjrates-service/internal/infrastructure/auth"
)

type Server struct {
	market   *application.MarketService
	users    *application.UserService
	userRepo application.UserRepo
	rates    application.RateRepo
	agg      *application.Aggregator
	cities   *cities.List
	tokens   *auth.Tokens
	ping     func(ctx context.Context) error
}

type ServerOption func(*Server)

func WithPing(fn func(ctx context.Context) error) ServerOption {
	return func(s *Server) { s.ping = fn }
}

func NewServer(market *application.MarketService, users *application.UserService, userRepo application.UserRepo, rates application.RateRepo, agg *application.Aggregator, cityList *cities.List, tokens *auth.Tokens, opts ...ServerOption) *Server {
	s := &Server{
		market:   market,
		users:    users,
		userRepo: userRepo,
		rates:    rates,
		agg:      agg,
		cities:   cityList,
		tokens:   tokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// authenticate resolves the Bearer token to a fresh user record, so revoked
// workers lose access immediately rather than at token expiry.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := s.tokens.Verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		u, err := s.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		ctx := context.WithValue(r.Context(), actorKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) domain.User {
	u, _ := r.Context().Value(actorKey).(domain.User)
	return u
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	CityName string `json:"city_name,omitempty"`
	Active   bool   `json:"active"`
}

func toUserView(u domain.User) userView {
	return userView{
		ID:       u.ID,
		Username: u.Username,
		Role:     string(u.Role),
		CityName: u.CityName,
		Active:   u.WorkerActive || u.Role == domain.RoleAdmin,
	}
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, u, err := s.users.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, application.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserView(u),
	})
}

func (s *Server) ListCities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"cities": s.cities.All()})
}

type marketRateView struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	CityName  string `json:"city_name"`
	Buy       string `json:"buy"`
	Sell      string `json:"sell"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toMarketRateViews(rates []domain.MarketRate) []marketRateView {
	out := make([]marketRateView, 0, len(rates))
	for _, m := range rates {
		out = append(out, marketRateView{
			ID:        m.ID,
			Code:      m.Code,
			CityName:  m.CityName,
			Buy:       m.Buy.String(),
			Sell:      m.Sell.String(),
			Notes:     m.Notes,
			CreatedAt: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}

func (s *Server) ListMarketRatesPublic(w http.ResponseWriter, r *http.Request) {
	rates, err := s.market.ListPublic(r.Context())
	if err != nil {
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rates": toMarketRateViews(rates)})
}

type bankRateView struct {
	BankName  string `json:"bank_name"`
	Code      string `json:"code"`
	Buy       string `json:"buy"`
	Sell      string `json:"sell"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) ListBankRates(w http.ResponseWriter, r *http.Request) {
	obs, err := s.rates.LatestByBank(r.Context())
	if err != nil {
		internalError(w)
		return
	}
	out := make([]bankRateView, 0, len(obs))
	for _, o := range obs {
		out = append(out, bankRateView{
			BankName:  o.BankName,
			Code:      o.Code,
			Buy:       o.Buy.String(),
			Sell:      o.Sell.String(),
			CreatedAt: o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rates": out})
}

type submitRateRequest struct {
	Code     string `json:"code"`
	CityName string `json:"city_name"`
	Buy      string `json:"buy"`
	Sell     string `json:"sell"`
	Notes    string `json:"notes"`
}

func (s *Server) SubmitMarketRate(w http.ResponseWriter, r *http.Request) {
	var body submitRateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rate, err := s.market.Submit(r.Context(), actorFrom(r), application.SubmitInput{
		Code:     body.Code,
		CityName: body.CityName,
		Buy:      body.Buy,
		Sell:     body.Sell,
		Notes:    body.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	views := toMarketRateViews([]domain.MarketRate{rate})
	writeJSON(w, http.StatusCreated, views[0])
}

func (s *Server) ListMarketRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.market.ListForActor(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rates": toMarketRateViews(rates)})
}

func (s *Server) DeactivateMarketRate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rate id")
		return
	}
	if err := s.market.Deactivate(r.Context(), actorFrom(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createWorkerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	CityName string `json:"city_name"`
	Phone    string `json:"phone"`
}

func (s *Server) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var body createWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := s.users.CreateWorker(r.Context(), actorFrom(r), application.CreateWorkerInput{
		Username: body.Username,
		Password: body.Password,
		CityName: body.CityName,
		Phone:    body.Phone,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserView(u))
}

func (s *Server) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := s.users.ListWorkers(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]userView, 0, len(workers))
	for _, u := range workers {
		out = append(out, toUserView(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"workers": out})
}

func (s *Server) ToggleWorker(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid worker id")
		return
	}
	active, err := s.users.ToggleWorker(r.Context(), actorFrom(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": active})
}

type activityView struct {
	ID          int64  `json:"id"`
	WorkerID    int64  `json:"worker_id"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
	RateID      *int64 `json:"rate_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.users.ListActivities(r.Context(), actorFrom(r), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]activityView, 0, len(rows))
	for _, a := range rows {
		out = append(out, activityView{
			ID:          a.ID,
			WorkerID:    a.WorkerID,
			Action:      a.Action,
			Description: a.Description,
			RateID:      a.RateID,
			CreatedAt:   a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": out})
}

type scrapeResultView struct {
	Bank  string `json:"bank"`
	Saved int    `json:"saved"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// TriggerScrape runs one full pass synchronously. Admin only; the run lock
// turns a concurrent trigger into a 409.
func (s *Server) TriggerScrape(w http.ResponseWriter, r *http.Request) {
	if actorFrom(r).Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}
	report, err := s.agg.Run(r.Context())
	if err != nil {
		if errors.Is(err, application.ErrRunInProgress) {
			writeError(w, http.StatusConflict, "scrape run already in progress")
			return
		}
		internalError(w)
		return
	}
	out := make([]scrapeResultView, 0, len(report.Results))
	for _, res := range report.Results {
		v := scrapeResultView{Bank: res.Bank, Saved: res.Saved}
		if res.Err != nil {
			v.Error = res.Err.Error()
			v.Kind = string(res.Kind)
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"succeeded": report.Succeeded(),
		"results":   out,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// writeServiceError maps application errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		internalError(w)
	}
}
