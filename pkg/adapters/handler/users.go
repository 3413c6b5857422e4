package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

type AccountHandler struct {
	accounts ports.AccountService
	sessions ports.SessionStore
	log      *zerolog.Logger
}

func NewAccountHandler(accounts ports.AccountService, sessions ports.SessionStore, log *zerolog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, sessions: sessions, log: log}
}

// CredentialsRequest payload for registration and login
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.log, w, r, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(h.log, w, r, err)
		return
	}

	h.log.Info().Str("userId", user.UserID).Str("username", user.Username).Msg("user registered")
	writeJSON(w, http.StatusCreated, user)
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.log, w, r, err)
		return
	}

	session, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(h.log, w, r, err)
		return
	}

	if err := h.sessions.Save(w, r, session); err != nil {
		writeError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session.AuthenticatedUser)
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		writeError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
