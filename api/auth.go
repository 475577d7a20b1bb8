package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/devconnect/internal/auth"
	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

type AuthHandler struct {
	accounts repository.AccountRepo
	tokens   *auth.Tokens
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(accounts repository.AccountRepo, tokens *auth.Tokens) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

func (r *registerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

var registerMessages = fieldMessages{
	"name":     "Name is required",
	"email":    "Please include a valid email",
	"password": "Please enter a password with 6 or more characters",
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginRequest) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

var loginMessages = fieldMessages{
	"email":    "Please include a valid email",
	"password": "Password is required",
}

type authResponse struct {
	Token string `json:"token"`
}

// Register creates an account and answers a session token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req, registerMessages) {
		return
	}

	ctx := r.Context()

	existing, err := h.accounts.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if existing != nil {
		writeErrors(w, http.StatusConflict, errorItem{Msg: "User already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(w, r, err)
		return
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Avatar:       auth.AvatarURL(req.Email),
		PasswordHash: hash,
	}
	if err := h.accounts.CreateAccount(ctx, &account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeErrors(w, http.StatusConflict, errorItem{Msg: "User already exists"})
			return
		}
		serverError(w, r, err)
		return
	}

	h.writeToken(w, r, account.ID)
}

// Login exchanges valid credentials for a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req, loginMessages) {
		return
	}

	account, err := h.accounts.GetAccountByEmail(r.Context(), req.Email)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if account == nil || auth.ComparePassword(account.PasswordHash, req.Password) != nil {
		writeErrors(w, http.StatusBadRequest, errorItem{Msg: "Invalid credentials"})
		return
	}

	h.writeToken(w, r, account.ID)
}

// CurrentAccount answers the caller's account without the password hash.
func (h *AuthHandler) CurrentAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetAccountByID(r.Context(), AccountIDFrom(r.Context()))
	if err != nil {
		serverError(w, r, err)
		return
	}
	if account == nil {
		writeMsg(w, msgUserNotFound, http.StatusBadRequest)
		return
	}

	writeJSON(w, account, http.StatusOK)
}

func (h *AuthHandler) writeToken(w http.ResponseWriter, r *http.Request, accountID string) {
	token, err := h.tokens.Issue(accountID)
	if err != nil {
		serverError(w, r, err)
		return
	}

	writeJSON(w, authResponse{Token: token}, http.StatusOK)
}
