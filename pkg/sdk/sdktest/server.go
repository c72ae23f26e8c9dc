// Package sdktest provides an in-process fake of the EventCore API for tests.
package sdktest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// RecordedRequest is a request the fake server received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Server is a fake API. Handlers serve the payloads configured on the server;
// any path can be forced to answer with a status via Fail.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	requests     []RecordedRequest
	failures     map[string]int
	resolve      map[string]any
	events       []map[string]any
	dashboard    map[string]any
	tickets      []map[string]any
	loginToken   map[string]string
	resolveCalls int
}

// NewServer starts a fake API. Close it when done.
func NewServer() *Server {
	s := &Server{
		failures:   make(map[string]int),
		resolve:    make(map[string]any),
		loginToken: make(map[string]string),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.failInjected)
	r.Get("/tenants/public/resolve", s.handleResolve)
	r.Post("/auth/{role}/login", s.handleLogin)
	r.Get("/events", s.handleEvents)
	r.Get("/events/search", s.handleSearch)
	r.Get("/events/{id}", s.handleEvent)
	r.Get("/host/dashboard", s.handleDashboard)
	r.Get("/tickets/my", s.handleTickets)

	s.Server = httptest.NewServer(r)
	return s
}

// SetResolvePayload sets the body answered for subdomain.
func (s *Server) SetResolvePayload(subdomain string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolve[subdomain] = payload
}

// SetEvents sets the events served by the listing endpoints.
func (s *Server) SetEvents(events ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// SetDashboard sets the host dashboard summary.
func (s *Server) SetDashboard(summary map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboard = summary
}

// SetTickets sets the buyer's tickets.
func (s *Server) SetTickets(tickets ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = tickets
}

// SetLoginToken makes POST /auth/{role}/login succeed with token.
func (s *Server) SetLoginToken(role, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginToken[role] = token
}

// Fail makes every request to path answer with status. Status 0 clears it.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, path)
		return
	}
	s.failures[path] = status
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request, if any.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// ResolveCalls returns how many resolve requests were served.
func (s *Server) ResolveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveCalls
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failInjected(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.failures[r.URL.Path]
		s.mu.Unlock()
		if ok {
			writeJSON(w, status, map[string]any{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	subdomain := r.URL.Query().Get("subdomain")
	s.mu.Lock()
	s.resolveCalls++
	payload, ok := s.resolve[subdomain]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "tenant not found"})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid credentials payload"})
		return
	}
	s.mu.Lock()
	token, ok := s.loginToken[role]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"token": token}})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	s.mu.Lock()
	events := make([]map[string]any, 0, len(s.events))
	for _, event := range s.events {
		if category == "" || event["category"] == category {
			events = append(events, event)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"events": events}})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	s.mu.Lock()
	events := make([]map[string]any, 0, len(s.events))
	for _, event := range s.events {
		title, _ := event["title"].(string)
		if q == "" || strings.Contains(strings.ToLower(title), q) {
			events = append(events, event)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, event := range s.events {
		if event["id"] == id {
			writeJSON(w, http.StatusOK, map[string]any{"data": event})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "event not found"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	summary := s.dashboard
	s.mu.Unlock()
	if summary == nil {
		summary = map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": summary})
}

func (s *Server) handleTickets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tickets := append([]map[string]any{}, s.tickets...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": tickets})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
