package mock

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/velovis/velovis/api"
	"github.com/velovis/velovis/auth"
)

const refreshTTL = 7 * 24 * time.Hour

func (s *Service) issue(username string) (*auth.Credentials, error) {
	accessToken, err := s.createJWT(username, accessTokenType, s.AccessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.createJWT(username, refreshTokenType, refreshTTL)
	if err != nil {
		return nil, err
	}
	s.refreshTokens.Put(refreshToken, username)
	return &auth.Credentials{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	s.loginCalls.Add(1)
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	acct, ok := s.accounts.Get(req.Username)
	s.mux.Lock()
	valid := ok && acct.Password == req.Password
	active := ok && acct.Active
	s.mux.Unlock()
	if !valid {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if !active {
		writeError(w, http.StatusUnauthorized, "account is not activated")
		return
	}
	credentials, err := s.issue(acct.Profile.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, credentials)
}

// refresh exchanges a refresh token exactly once
func (s *Service) refresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decode(w, r, &req) {
		return
	}
	if s.rejectRefresh.Load() {
		writeError(w, http.StatusUnauthorized, "refresh token expired")
		return
	}
	username, ok := s.refreshTokens.Take(req.RefreshToken)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	credentials, err := s.issue(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, credentials)
}

func (s *Service) logout(w http.ResponseWriter, r *http.Request) {
	s.logoutCalls.Add(1)
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.refreshTokens.Delete(req.RefreshToken)
	writeJSON(w, http.StatusOK, &api.Message{Message: "logged out"})
}

func (s *Service) me(w http.ResponseWriter, r *http.Request, acct *account) {
	writeJSON(w, http.StatusOK, acct.Profile)
}

func (s *Service) register(w http.ResponseWriter, r *http.Request) {
	var req api.Registration
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "username, email and a password of at least 6 characters are required")
		return
	}
	if _, exists := s.accounts.Get(req.Username); exists {
		writeError(w, http.StatusConflict, "username already taken")
		return
	}
	s.accounts.Put(req.Username, &account{
		Profile: auth.Profile{
			ID:          uuid.NewString(),
			Username:    req.Username,
			FullName:    req.FirstName + " " + req.LastName,
			Email:       req.Email,
			Roles:       []string{"CUSTOMER"},
			Permissions: customerPermissions(),
		},
		Password:        req.Password,
		ActivationToken: uuid.NewString(),
	})
	writeJSON(w, http.StatusCreated, &api.Message{Message: "activation mail sent"})
}

// ActivationToken returns the pending activation token of the user
func (s *Service) ActivationToken(username string) string {
	s.mux.Lock()
	defer s.mux.Unlock()
	if acct, ok := s.accounts.Get(username); ok {
		return acct.ActivationToken
	}
	return ""
}

// ResetToken returns the pending password reset token of the user
func (s *Service) ResetToken(username string) string {
	s.mux.Lock()
	defer s.mux.Unlock()
	if acct, ok := s.accounts.Get(username); ok {
		return acct.ResetToken
	}
	return ""
}

func (s *Service) activate(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	var activated bool
	s.mux.Lock()
	defer s.mux.Unlock()
	s.accounts.Range(func(_ string, acct *account) bool {
		if token != "" && acct.ActivationToken == token {
			acct.Active = true
			acct.ActivationToken = ""
			activated = true
			return false
		}
		return true
	})
	if !activated {
		writeError(w, http.StatusBadRequest, "invalid activation token")
		return
	}
	writeJSON(w, http.StatusOK, &api.Message{Message: "account activated"})
}

func (s *Service) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.accounts.Range(func(_ string, acct *account) bool {
		if acct.Profile.Email == req.Email {
			acct.ResetToken = uuid.NewString()
			return false
		}
		return true
	})
	// the answer never reveals whether the address is known
	writeJSON(w, http.StatusOK, &api.Message{Message: "if the address is registered a reset link was sent"})
}

func (s *Service) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if !decode(w, r, &req) {
		return
	}
	var reset bool
	s.mux.Lock()
	defer s.mux.Unlock()
	s.accounts.Range(func(_ string, acct *account) bool {
		if req.Token != "" && acct.ResetToken == req.Token {
			acct.Password = req.NewPassword
			acct.ResetToken = ""
			reset = true
			return false
		}
		return true
	})
	if !reset {
		writeError(w, http.StatusBadRequest, "invalid or expired reset token")
		return
	}
	writeJSON(w, http.StatusOK, &api.Message{Message: "password updated"})
}

func (s *Service) changePassword(w http.ResponseWriter, r *http.Request, acct *account) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if acct.Password != req.CurrentPassword {
		writeError(w, http.StatusBadRequest, "current password is incorrect")
		return
	}
	acct.Password = req.NewPassword
	writeJSON(w, http.StatusOK, &api.Message{Message: "password changed"})
}
