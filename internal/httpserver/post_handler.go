package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/devlog/internal/post"
)

func pageFrom(r *http.Request) post.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	take, _ := strconv.Atoi(q.Get("take"))
	return post.Page{Page: page, Take: take, Query: q.Get("q")}
}

func postIDFrom(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	listing, err := s.deps.Posts.Feed(r.Context(), pageFrom(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Posts.Get(r.Context(), chi.URLParam(r, "slug"), s.viewerID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var draft post.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := s.deps.Posts.Create(r.Context(), accountIDFrom(r), draft)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := postIDFrom(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid post id"})
		return
	}

	var draft post.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := s.deps.Posts.Update(r.Context(), accountIDFrom(r), id, draft)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := postIDFrom(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid post id"})
		return
	}

	if err := s.deps.Posts.Delete(r.Context(), accountIDFrom(r), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleMyPosts(w http.ResponseWriter, r *http.Request) {
	id := accountIDFrom(r)
	listing, err := s.deps.Posts.ByAuthor(r.Context(), id, id, pageFrom(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

func (s *Server) handleMyDrafts(w http.ResponseWriter, r *http.Request) {
	listing, err := s.deps.Posts.Drafts(r.Context(), accountIDFrom(r), pageFrom(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

// handlePostsByAuthor lists another user's published posts by idname.
func (s *Server) handlePostsByAuthor(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.Accounts.FindByIdname(r.Context(), chi.URLParam(r, "idname"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	listing, err := s.deps.Posts.ByAuthor(r.Context(), a.ID, s.viewerID(r), pageFrom(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

const imageField = "image"

// handleUploadPostImage stores an inline article image and returns its
// public URL for the editor to embed.
func (s *Server) handleUploadPostImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(imageField)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "missing image file"})
		return
	}
	defer file.Close()

	info, err := s.deps.Images.Put(r.Context(), file, header.Size, "posts")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"url": s.deps.Images.URL(info.Key)})
}
