package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/filex"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
)

// maxUploadBytes caps a multipart request body (form fields plus images).
const maxUploadBytes = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, http.StatusOK, "OK", "health check passed")
}

// stageFormFile saves one multipart file field to the local staging
// directory and returns its path. A missing field is not an error: the
// returned path is empty and the caller decides whether that matters.
func (s *Server) stageFormFile(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	dir, err := filex.EnsureSubdDir(s.uploadDir)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + filepath.Ext(header.Filename)
	return filex.SaveStream(file, dir, name)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	avatarPath, err := s.stageFormFile(r, "avatar")
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read avatar file")
		return
	}
	defer filex.RemoveQuietly(avatarPath)

	coverPath, err := s.stageFormFile(r, "coverImage")
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read cover image file")
		return
	}
	defer filex.RemoveQuietly(coverPath)

	user, err := s.users.Register(r.Context(), services.RegisterParams{
		FullName:       r.FormValue("fullName"),
		Email:          r.FormValue("email"),
		Username:       r.FormValue("username"),
		Password:       r.FormValue("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		s.logger.Error(r.Context(), "Registration failed", "error", err.Error())
		respondServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.Username)
	respondOK(w, http.StatusCreated, user, "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username or email and password are required")
		return
	}

	pair, user, err := s.users.Login(r.Context(), identifier, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	setAuthCookies(w, pair)
	respondOK(w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		// body is optional when the cookie is present
		_ = json.NewDecoder(r.Body).Decode(&body)
		token = body.RefreshToken
	}

	pair, err := s.users.Refresh(r.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	setAuthCookies(w, pair)
	respondOK(w, http.StatusOK, map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), userIDFromContext(r.Context())); err != nil {
		respondServiceError(w, err)
		return
	}
	clearAuthCookies(w)
	respondOK(w, http.StatusOK, struct{}{}, "user logged out")
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.CurrentUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, http.StatusOK, user, "current user fetched successfully")
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.users.ChangePassword(r.Context(), userIDFromContext(r.Context()), req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, http.StatusOK, struct{}{}, "password changed successfully")
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.UpdateAccount(r.Context(), userIDFromContext(r.Context()), req.FullName, req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, http.StatusOK, user, "account details updated successfully")
}

func (s *Server) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	s.handleUpdateImage(w, r, "avatar", s.users.UpdateAvatar, "avatar updated successfully")
}

func (s *Server) handleUpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	s.handleUpdateImage(w, r, "coverImage", s.users.UpdateCoverImage, "cover image updated successfully")
}

func (s *Server) handleUpdateImage(w http.ResponseWriter, r *http.Request, field string,
	update func(ctx context.Context, userID, localPath string) (*models.User, error), message string) {

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	path, err := s.stageFormFile(r, field)
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	defer filex.RemoveQuietly(path)

	user, err := update(r.Context(), userIDFromContext(r.Context()), path)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, http.StatusOK, user, message)
}

func (s *Server) handleWatchHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.users.WatchHistory(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if history == nil {
		history = []string{}
	}
	respondOK(w, http.StatusOK, history, "watch history fetched successfully")
}
