// Package clienttest provides an in-memory posts API for tests.
package clienttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/post-web/internal/dto"
	"github.com/BloggingApp/post-web/internal/model"
	"github.com/BloggingApp/post-web/pkg/utils"
)

const defaultLimit = 10

type Request struct {
	Method        string
	Path          string
	Query         map[string][]string
	Body          []byte
	Authorization string
}

type failure struct {
	status  int
	payload map[string]interface{}
}

type Server struct {
	*httptest.Server

	Secret []byte
	Now    func() time.Time

	mu       sync.Mutex
	accounts []model.Account
	posts    []model.Post
	nextID   int
	requests []Request
	failures map[string]failure
}

func NewServer(t testing.TB) *Server {
	s := &Server{
		Secret:   []byte("clienttest-secret"),
		Now:      time.Now,
		failures: make(map[string]failure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /account/login", s.login)
	mux.HandleFunc("POST /account/register", s.register)
	mux.HandleFunc("GET /accounts", s.authed(s.listAccounts))
	mux.HandleFunc("GET /posts", s.authed(s.listAll))
	mux.HandleFunc("POST /posts/mypost", s.authed(s.listMine))
	mux.HandleFunc("POST /posts/create", s.authed(s.create))
	mux.HandleFunc("PUT /posts/edit/{id}", s.authed(s.edit))
	mux.HandleFunc("DELETE /posts/delete/{id}", s.authed(s.delete))
	mux.HandleFunc("GET /posts/view/{id}", s.authed(s.view))

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)

	return s
}

func (s *Server) AddAccount(username, email, password string, role model.Role) model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := model.Account{
		UserID:   "u" + strconv.Itoa(len(s.accounts)+1),
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	}
	s.accounts = append(s.accounts, account)
	return account
}

func (s *Server) AddPost(userID, title, body string, tags ...string) model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addPostLocked(userID, title, body, tags)
}

// AddDatedPost stores a post with a fixed creation time.
func (s *Server) AddDatedPost(userID, title, body string, date time.Time, tags ...string) model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.addPostLocked(userID, title, body, tags)
	post.Date = date.UTC().Format(time.RFC3339)
	s.posts[len(s.posts)-1] = post
	return post
}

func (s *Server) addPostLocked(userID, title, body string, tags []string) model.Post {
	if tags == nil {
		tags = []string{}
	}
	s.nextID++
	post := model.Post{
		ID:     "p" + strconv.Itoa(s.nextID),
		UserID: userID,
		Title:  title,
		Body:   body,
		Date:   s.Now().UTC().Format(time.RFC3339),
		Tags:   tags,
	}
	s.posts = append(s.posts, post)
	return post
}

// TokenFor signs a token for a registered account.
func (s *Server) TokenFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Email == email {
			return s.tokenLocked(account)
		}
	}
	return ""
}

func (s *Server) tokenLocked(account model.Account) string {
	now := s.Now()
	token, err := utils.SignClaims(model.Claims{
		Email:     account.Email,
		Role:      account.Role,
		Subject:   account.UserID,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}, s.Secret)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Post(nil), s.posts...)
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// LastRequest returns the latest request whose path equals path.
func (s *Server) LastRequest(path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Path == path {
			return s.requests[i], true
		}
	}
	return Request{}, false
}

// FailNext makes the next request to path answer with status and payload.
func (s *Server) FailNext(path string, status int, payload map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[path] = failure{status: status, payload: payload}
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Body:          body,
			Authorization: r.Header.Get("Authorization"),
		})
		f, failing := s.failures[r.URL.Path]
		delete(s.failures, r.URL.Path)
		s.mu.Unlock()

		if failing {
			writeJSON(w, f.status, f.payload)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, account model.Account)

func (s *Server) authed(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "missing token"})
			return
		}

		claims, err := utils.DecodeClaims(strings.TrimPrefix(header, "Bearer "))
		if err != nil || claims.Expired(s.Now()) {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "invalid token"})
			return
		}

		s.mu.Lock()
		var (
			account model.Account
			found   bool
		)
		for _, a := range s.accounts {
			if a.UserID == claims.Subject {
				account, found = a, true
				break
			}
		}
		s.mu.Unlock()

		if !found {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "unknown account"})
			return
		}

		next(w, r, account)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var input dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Email == input.Email && account.Password == input.Password {
			writeJSON(w, http.StatusOK, dto.LoginResponse{Token: s.tokenLocked(account)})
			return
		}
	}

	writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "Invalid credentials"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var input dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "invalid body"})
		return
	}

	s.mu.Lock()
	for _, account := range s.accounts {
		if account.Email == input.Email {
			s.mu.Unlock()
			writeJSON(w, http.StatusConflict, map[string]interface{}{"message": "Email already exists"})
			return
		}
	}
	s.mu.Unlock()

	account := s.AddAccount(input.Username, input.Email, input.Password, model.Role(input.Role))

	s.mu.Lock()
	token := s.tokenLocked(account)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, dto.RegisterResponse{Token: token, Message: "Account created"})
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request, account model.Account) {
	if account.Role != model.RoleAdmin {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{"message": "admin only"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, dto.AccountsResponse{Accounts: append([]model.Account(nil), s.accounts...)})
}

func (s *Server) listAll(w http.ResponseWriter, r *http.Request, account model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(s.posts, r))
}

func (s *Server) listMine(w http.ResponseWriter, r *http.Request, account model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mine []model.Post
	for _, post := range s.posts {
		if post.UserID == account.UserID {
			mine = append(mine, post)
		}
	}

	writeJSON(w, http.StatusOK, paginate(mine, r))
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, account model.Account) {
	var input dto.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "invalid body"})
		return
	}

	s.mu.Lock()
	post := s.addPostLocked(account.UserID, input.Title, input.Body, input.Tags)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request, account model.Account) {
	var input dto.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == r.PathValue("id") {
			s.posts[i].Title = input.Title
			s.posts[i].Body = input.Body
			s.posts[i].Tags = input.Tags
			writeJSON(w, http.StatusOK, s.posts[i])
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]interface{}{"message": "post not found"})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request, account model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == r.PathValue("id") {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]interface{}{"message": "post not found"})
}

func (s *Server) view(w http.ResponseWriter, r *http.Request, account model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, post := range s.posts {
		if post.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, post)
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]interface{}{"message": "post not found"})
}

func paginate(posts []model.Post, r *http.Request) model.PagedPosts {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	totalPages := (len(posts) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	data := []model.Post{}
	start := (page - 1) * limit
	if start < len(posts) {
		end := start + limit
		if end > len(posts) {
			end = len(posts)
		}
		data = append(data, posts[start:end]...)
	}

	return model.PagedPosts{
		Data:       data,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		TotalPosts: len(posts),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
