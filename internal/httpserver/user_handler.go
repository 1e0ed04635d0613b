package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/devlog/internal/account"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.Accounts.FindByID(r.Context(), accountIDFrom(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

type updateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	a, err := s.deps.Accounts.UpdateBasicProfile(r.Context(), accountIDFrom(r), account.BasicProfile{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

type updateSocialRequest struct {
	Github   *string `json:"github"`
	Linkedin *string `json:"linkedin"`
	Website  *string `json:"website"`
}

func (s *Server) handleUpdateSocial(w http.ResponseWriter, r *http.Request) {
	var req updateSocialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	a, err := s.deps.Accounts.UpdateSocialLinks(r.Context(), accountIDFrom(r), account.SocialLinks{
		Github:   req.Github,
		Linkedin: req.Linkedin,
		Website:  req.Website,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

type updateIdnameRequest struct {
	Idname string `json:"idname"`
}

func (s *Server) handleUpdateIdname(w http.ResponseWriter, r *http.Request) {
	var req updateIdnameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := account.ValidateIdname(req.Idname); err != nil {
		s.respondError(w, r, err)
		return
	}

	a, err := s.deps.Accounts.UpdateIdname(r.Context(), accountIDFrom(r), req.Idname)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (s *Server) handleCheckIdname(w http.ResponseWriter, r *http.Request) {
	idname := chi.URLParam(r, "idname")
	if err := account.ValidateIdname(idname); err != nil {
		respondJSON(w, http.StatusOK, map[string]any{"available": false, "reason": "invalid format"})
		return
	}

	_, err := s.deps.Accounts.FindByIdname(r.Context(), idname)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]any{"available": false, "reason": "taken"})
	case errors.Is(err, account.ErrNotFound):
		respondJSON(w, http.StatusOK, map[string]any{"available": true})
	default:
		// A lookup failure is not availability.
		s.respondError(w, r, err)
	}
}

// userListEntry is the directory view of an account: the same field set
// the public profile exposes, minus contact details.
type userListEntry struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	Idname      string `json:"idname,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.deps.Accounts.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	entries := make([]userListEntry, 0, len(accounts))
	for _, a := range accounts {
		entries = append(entries, userListEntry{
			ID:          a.ID,
			DisplayName: a.DisplayName,
			Idname:      a.Idname,
			AvatarURL:   a.AvatarURL,
			Bio:         a.Bio,
		})
	}
	respondJSON(w, http.StatusOK, entries)
}

// publicProfile is the subset of account data anyone may see.
type publicProfile struct {
	Idname      string    `json:"idname"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Github      string    `json:"github,omitempty"`
	Linkedin    string    `json:"linkedin,omitempty"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *Server) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.Accounts.FindByIdname(r.Context(), chi.URLParam(r, "idname"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, publicProfile{
		Idname:      a.Idname,
		DisplayName: a.DisplayName,
		AvatarURL:   a.AvatarURL,
		Bio:         a.Bio,
		Github:      a.Github,
		Linkedin:    a.Linkedin,
		Website:     a.Website,
		CreatedAt:   a.CreatedAt,
	})
}

const avatarField = "avatar"

// handleUploadAvatar stores the uploaded image and swaps the account's
// avatar, deleting the previous object when it lives in our bucket.
func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(avatarField)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "missing avatar file"})
		return
	}
	defer file.Close()

	accountID := accountIDFrom(r)
	a, err := s.deps.Accounts.FindByID(r.Context(), accountID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	info, err := s.deps.Images.Put(r.Context(), file, header.Size, "avatars")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	url := s.deps.Images.URL(info.Key)
	if err := s.deps.Accounts.UpdateAvatar(r.Context(), accountID, url); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.deleteOwnedAvatar(r, a.AvatarURL)
	respondJSON(w, http.StatusOK, map[string]string{"avatarUrl": url})
}

func (s *Server) handleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	accountID := accountIDFrom(r)
	a, err := s.deps.Accounts.FindByID(r.Context(), accountID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.deps.Accounts.UpdateAvatar(r.Context(), accountID, ""); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.deleteOwnedAvatar(r, a.AvatarURL)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	accountID := accountIDFrom(r)
	a, err := s.deps.Accounts.FindByID(r.Context(), accountID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.deps.Accounts.Delete(r.Context(), accountID); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.deleteOwnedAvatar(r, a.AvatarURL)
	s.clearAuthCookies(w)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// deleteOwnedAvatar removes a previous avatar object. Provider-hosted
// avatar URLs pass through untouched; only keys under avatars/ are ours.
func (s *Server) deleteOwnedAvatar(r *http.Request, avatarURL string) {
	_, after, found := strings.Cut(avatarURL, "/avatars/")
	if !found || after == "" {
		return
	}
	if err := s.deps.Images.Delete(r.Context(), "avatars/"+after); err != nil {
		s.log.WarnContext(r.Context(), "avatar cleanup failed",
			"key", "avatars/"+after, "error", err.Error())
	}
}
