// Package apiserver is a reference implementation of the blog API contract,
// backed by any store.PostStore. The harness runs it in -embedded mode so
// the suite can be exercised without an external service or a real MongoDB
// instance.
package apiserver

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dermio/blog-contract-tests/framework"
	"github.com/dermio/blog-contract-tests/servicedef"
	"github.com/dermio/blog-contract-tests/store"
)

// Server serves the blog post CRUD endpoints.
type Server struct {
	store  store.PostStore
	logger framework.Logger
	router *mux.Router
}

func NewServer(posts store.PostStore, logger framework.Logger) *Server {
	if logger == nil {
		logger = framework.NullLogger()
	}
	s := &Server{store: posts, logger: logger}

	router := mux.NewRouter()
	router.HandleFunc("/posts", s.listPosts).Methods(http.MethodGet)
	router.HandleFunc("/posts", s.createPost).Methods(http.MethodPost)
	router.HandleFunc("/posts/{id}", s.updatePost).Methods(http.MethodPut)
	router.HandleFunc("/posts/{id}", s.deletePost).Methods(http.MethodDelete)
	s.router = router

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.FindAll(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	out := make([]servicedef.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.APIPost())
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var submission servicedef.PostSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		s.clientError(w, fmt.Sprintf("malformed request body: %s", err))
		return
	}
	if missing := missingSubmissionFields(submission); missing != "" {
		s.clientError(w, "missing field in request body: "+missing)
		return
	}

	created := time.Now().UTC().Truncate(time.Millisecond)
	if submission.Created != nil {
		created = *submission.Created
	}
	post := &store.BlogPost{
		Author:  submission.Author,
		Title:   submission.Title,
		Content: submission.Content,
		Created: created,
	}
	if err := s.store.Insert(r.Context(), post); err != nil {
		s.serverError(w, err)
		return
	}

	s.logger.Printf("Created post %s", post.ID)
	s.writeJSON(w, http.StatusCreated, post.APIPost())
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	pathID := mux.Vars(r)["id"]

	var update servicedef.PostUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.clientError(w, fmt.Sprintf("malformed request body: %s", err))
		return
	}
	if update.ID != pathID {
		s.clientError(w, fmt.Sprintf("request path id (%s) and request body id (%s) must match", pathID, update.ID))
		return
	}
	if missing := missingUpdateFields(update); missing != "" {
		s.clientError(w, "missing field in request body: "+missing)
		return
	}

	existing, err := s.store.FindByID(r.Context(), pathID)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if existing == nil {
		http.Error(w, "no post with that id", http.StatusNotFound)
		return
	}

	replacement := &store.BlogPost{
		ID:      existing.ID,
		Author:  update.Author,
		Title:   update.Title,
		Content: update.Content,
		Created: existing.Created,
	}
	if _, err := s.store.Replace(r.Context(), replacement); err != nil {
		s.serverError(w, err)
		return
	}

	s.logger.Printf("Updated post %s", pathID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.serverError(w, err)
		return
	}
	s.logger.Printf("Deleted post %s", id)
	w.WriteHeader(http.StatusNoContent)
}

func missingSubmissionFields(submission servicedef.PostSubmission) string {
	switch {
	case submission.Title == "":
		return "title"
	case submission.Content == "":
		return "content"
	case submission.Author.FirstName == "":
		return "author.firstName"
	case submission.Author.LastName == "":
		return "author.lastName"
	}
	return ""
}

func missingUpdateFields(update servicedef.PostUpdate) string {
	switch {
	case update.Title == "":
		return "title"
	case update.Content == "":
		return "content"
	case update.Author.FirstName == "":
		return "author.firstName"
	case update.Author.LastName == "":
		return "author.lastName"
	}
	return ""
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		s.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) clientError(w http.ResponseWriter, message string) {
	s.logger.Printf("Rejected request: %s", message)
	http.Error(w, message, http.StatusBadRequest)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Printf("Internal error: %s", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// Start listens on the given port and serves until the returned server is
// shut down. It fails fast if the port cannot be bound.
func Start(port int, posts store.PostStore, logger framework.Logger) (*http.Server, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	server := &http.Server{
		Handler:           NewServer(posts, logger),
		ReadHeaderTimeout: time.Second * 10,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Printf("embedded API server exited: %s", err)
		}
	}()
	return server, nil
}
