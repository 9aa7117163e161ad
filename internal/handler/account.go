package handler

import (
	"log/slog"
	"net/http"

	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/handler/dto"
	"github.com/notekeep/notekeep/internal/service"
)

// AccountHandler handles registration, login and the current user.
type AccountHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{svc: svc, logger: logger}
}

// CreateAccount handles POST /create-account.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.svc.Register(r.Context(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("account created", "user_id", result.User.ID)
	writeJSON(w, http.StatusOK, dto.CreateAccountResponse{
		User:        dto.ToUserResponse(result.User),
		AccessToken: result.AccessToken,
		Message:     "Registration Successful",
	})
}

// Login handles POST /login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Email:       result.User.Email,
		AccessToken: result.AccessToken,
		Message:     "Login successful",
	})
}

// GetUser handles GET /get-user.
func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GetUserResponse{
		User:    dto.ToUserResponse(user),
		Message: "",
	})
}
