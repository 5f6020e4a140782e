// Package apitest runs an in-memory todo API for tests. It mirrors the
// behavior of the real backend: newest items first, 201 on create, 400 on an
// empty patch and 404 for unknown ids.
package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/tada/internal/model"
)

// Request is one recorded call.
type Request struct {
	Method string
	Path   string // relative to the API base, e.g. "/todos/5"
	Body   string
	Header http.Header
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server is a fake API mounted under /api.
type Server struct {
	srv *httptest.Server

	mu        sync.Mutex
	items     map[int64]model.Item
	nextID    int64
	requests  []Request
	failures  map[string]int
	malformed bool
}

// New starts a server seeded with items (ids are assigned where zero) and
// closes it when the test ends.
func New(t testing.TB, seed ...model.Item) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		items:    map[int64]model.Item{},
		nextID:   1,
		failures: map[string]int{},
	}
	for _, it := range seed {
		if it.ID == 0 {
			it.ID = s.nextID
		}
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
		s.items[it.ID] = it
	}

	r := gin.New()
	api := r.Group("/api", s.record)
	api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	api.GET("/todos", s.listTodos)
	api.POST("/todos", s.createTodo)
	api.PATCH("/todos/:id", s.updateTodo)
	api.DELETE("/todos/:id", s.deleteTodo)

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

// BaseURL is the API base the client should be configured with.
func (s *Server) BaseURL() string { return s.srv.URL + "/api" }

// Fail makes every later method+path request answer with status until
// ClearFailures is called.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// ClearFailures removes all injected failures.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]int{}
}

// Malformed switches the list endpoint to an unparseable body.
func (s *Server) Malformed(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.malformed = on
}

// Requests returns a copy of every recorded call.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many calls hit method+path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Mutations counts every non-GET call.
func (s *Server) Mutations() int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method != http.MethodGet {
			n++
		}
	}
	return n
}

// Items returns the stored items in list order.
func (s *Server) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *Server) sortedLocked() []model.Item {
	out := make([]model.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	path := strings.TrimPrefix(c.Request.URL.Path, "/api")

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Request.Method,
		Path:   path,
		Body:   string(body),
		Header: c.Request.Header.Clone(),
	})
	status, failing := s.failures[c.Request.Method+" "+path]
	s.mu.Unlock()

	if failing {
		c.AbortWithStatusJSON(status, errorResponse{Detail: "injected failure"})
		return
	}
	c.Next()
}

func (s *Server) listTodos(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.malformed {
		c.Data(http.StatusOK, "application/json", []byte(`[{"id":`))
		return
	}
	c.JSON(http.StatusOK, s.sortedLocked())
}

func (s *Server) createTodo(c *gin.Context) {
	var body struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	it := model.Item{
		ID:        s.nextID,
		Title:     body.Title,
		CreatedAt: time.Now().UTC().Format("2006-01-02T15:04:05"),
	}
	s.nextID++
	s.items[it.ID] = it
	c.JSON(http.StatusCreated, it)
}

func (s *Server) updateTodo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "invalid id"})
		return
	}
	var body model.Patch
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "invalid request body"})
		return
	}
	if body.Empty() {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "No fields to update"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Detail: "Not found"})
		return
	}
	if body.Title != nil {
		it.Title = *body.Title
	}
	if body.Done != nil {
		it.Done = *body.Done
	}
	s.items[id] = it
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) deleteTodo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "invalid id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		c.JSON(http.StatusNotFound, errorResponse{Detail: "Not found"})
		return
	}
	delete(s.items, id)
	c.Status(http.StatusNoContent)
}
