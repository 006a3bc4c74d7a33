package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"
)

// RegisterRequest is the request body for POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (s RegisterRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(s.Email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// RegisterResponse is the response body for POST /auth/register
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// VerifyRequest is the request body for POST /auth/verify
type VerifyRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
}

// Validate implements Validator.
func (v VerifyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(v.Email) == "" {
		errs = append(errs, "email is required")
	}
	if v.VerificationCode == "" {
		errs = append(errs, "verificationCode is required")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string             `json:"token"`
	TokenType string             `json:"tokenType"`
	User      *domain.PublicUser `json:"user"`
}

// RegisterSuccessResponse is the success response envelope for POST /auth/register (201).
type RegisterSuccessResponse struct {
	Data  RegisterResponse `json:"data"`
	Error *h.APIError      `json:"error"`
}

// MessageSuccessResponse is the success response envelope for message-only endpoints.
type MessageSuccessResponse struct {
	Data  MessageResponse `json:"data"`
	Error *h.APIError     `json:"error"`
}

// LoginSuccessResponse is the success response envelope for POST /auth/login (200).
type LoginSuccessResponse struct {
	Data  LoginResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

// AuthController handles registration, verification and login.
type AuthController struct {
	Logger  *slog.Logger
	Service domain.AccountService
}

func NewAuthController(logger *slog.Logger, svc domain.AccountService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Creates an unverified PARTICIPANT account and emails a verification code. Email delivery is best effort.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} controllers.RegisterSuccessResponse "data contains userId"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, err := c.Service.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, RegisterResponse{
		Message: "User registered successfully. Please check your email for the verification code.",
		UserID:  userID,
	})
}

// Verify godoc
// @Summary Verify an account
// @Description Marks the account verified when the code matches exactly. The code is sent again in a confirmation email.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body VerifyRequest true "Email and verification code"
// @Success 200 {object} controllers.MessageSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, invalid_code or conflict"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/verify [post]
func (c *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Verify(r.Context(), req.Email, req.VerificationCode); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "Account verified successfully. Please check your email for confirmation."})
}

// Login godoc
// @Summary Log in
// @Description Authenticate a verified account with email and password. Returns a Bearer token valid for 7 days by default.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains token, tokenType and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: invalid_credentials"
// @Failure 403 {object} helpers.APIResponse "error.code: account_not_verified"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
}
