package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"snapdish/internal/model"
	"snapdish/internal/ratelimit"
	"snapdish/internal/service"
	"snapdish/internal/util"
	"snapdish/internal/validate"
)

const minUserAgentLength = 10

// AuthHandler handles HTTP requests for signup and login.
type AuthHandler struct {
	authService   *service.AuthService
	limiter       *ratelimit.Limiter
	logger        *zap.Logger
	strictHeaders bool
	production    bool
}

func NewAuthHandler(
	authService *service.AuthService,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
	strictHeaders, production bool,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		limiter:       limiter,
		logger:        logger,
		strictHeaders: strictHeaders,
		production:    production,
	}
}

// errorBody is the wire format for every error response. Details is
// only populated outside production.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type signupResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRoutes registers the auth routes.
func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Post("/signup", h.Signup)
	router.Post("/login", h.Login)
}

// Signup handles account creation. Checks run in fixed order and the
// first failure terminates the request: headers, rate limit, body
// shape, credential rules, duplicate, create.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	if h.strictHeaders && !validRequestHeaders(r) {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request", "")
		return
	}

	clientAddr := ClientAddr(r)
	if !h.limiter.Allow(ctx, clientAddr) {
		h.logger.Warn("Signup rate limited",
			util.String("client_addr", clientAddr))
		h.respondWithError(w, http.StatusTooManyRequests,
			"Too many signup attempts. Please try again later.", "")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.respondWithError(w, http.StatusBadRequest, "Email and password are required", "")
		return
	}

	if len(req.Email) > validate.MaxEmailLength {
		h.respondWithError(w, http.StatusBadRequest, "Invalid email format", "")
		return
	}
	if len(req.Password) > validate.MaxPasswordLength {
		h.respondWithError(w, http.StatusBadRequest, "Invalid password format", "")
		return
	}

	if !validate.ValidateEmail(req.Email) {
		h.logger.Debug("Rejected signup email",
			util.String("email", util.SanitizeInput(req.Email)))
		h.respondWithError(w, http.StatusBadRequest, "Please enter a valid email address", "")
		return
	}
	if err := validate.CheckPassword(req.Password); err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	user, err := h.authService.Signup(ctx, &service.SignupRequest{
		Email:      req.Email,
		Password:   req.Password,
		ClientAddr: clientAddr,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, signupResponse{
		Message: "User created successfully",
		User:    user.Public(),
	})
	h.logger.Info("User signed up via HTTP",
		util.String("user_id", user.ID),
		util.String("client_addr", clientAddr),
		util.Duration("duration", time.Since(startTime)))
}

// Login handles credentials-based login and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.respondWithError(w, http.StatusBadRequest, "Email and password are required", "")
		return
	}

	user, token, err := h.authService.Login(ctx, req.Email, req.Password, ClientAddr(r))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.respondWithError(w, http.StatusUnauthorized, "invalid credentials", "")
			return
		}
		h.respondServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  user.Public(),
	})
	h.logger.Info("User logged in via HTTP",
		util.String("user_id", user.ID),
		util.Duration("duration", time.Since(startTime)))
}

// validRequestHeaders applies the hardening checks: a JSON content type
// and a minimally-plausible user agent.
func validRequestHeaders(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return false
	}

	if len(r.UserAgent()) < minUserAgentLength {
		return false
	}

	return true
}

// Helper Methods

func (h *AuthHandler) respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", util.ErrorField(err))
	}
}

func (h *AuthHandler) respondWithError(w http.ResponseWriter, statusCode int, message, details string) {
	body := errorBody{Error: message}
	if details != "" && !h.production {
		body.Details = details
	}
	h.respondWithJSON(w, statusCode, body)
}

// respondServiceError maps service errors to response categories:
// conflict → 409, storage/unexpected → 500 with detail suppressed in
// production.
func (h *AuthHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		h.respondWithError(w, http.StatusConflict, "User with this email already exists", "")
	case errors.Is(err, service.ErrInvalidInput):
		h.respondWithError(w, http.StatusBadRequest, "Invalid request", "")
	default:
		h.logger.Error("Request failed", util.ErrorField(err))
		h.respondWithError(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}
