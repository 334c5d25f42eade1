package transport

import (
	"errors"
	"net/http"

	"way2rare/internal/domain"
	"way2rare/internal/middleware"
	"way2rare/internal/repository"
	"way2rare/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateUserRequest represents the user creation payload
type CreateUserRequest struct {
	Email         string  `json:"email" validate:"required,email"`
	CognitoUserID *string `json:"cognito_user_id"`
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
}

// UpdateUserRequest represents a partial user update. Addresses have no field
// here: they are managed through the address endpoint only.
type UpdateUserRequest struct {
	CognitoUserID *string `json:"cognito_user_id"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
}

// AddAddressRequest represents the address creation payload
type AddAddressRequest struct {
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zip       string `json:"zip" validate:"required"`
	Country   string `json:"country"`
	IsDefault bool   `json:"is_default"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes. The {userID} parameter accepts
// either the internal id or the identity provider subject; the shape is
// decided here, once, before anything touches the database.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/by-email", h.GetByEmail)
		r.Get("/{userID}", h.Get)
		r.Put("/{userID}", h.Update)
		r.Post("/{userID}/addresses", h.AddAddress)
	})
}

// Get returns a user with addresses, looked up by internal id or identity
// provider subject.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident := domain.ParseUserIdentifier(chi.URLParam(r, "userID"))

	user, err := h.userService.Get(r.Context(), ident)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("Failed to get user", zap.String("user_id", ident.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// GetByEmail returns a user by email address.
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("Failed to get user by email", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// Create adds a new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("User creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), &domain.NewUser{
		CognitoUserID: req.CognitoUserID,
		Email:         req.Email,
		Name:          req.Name,
		Phone:         req.Phone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
			return
		}
		h.logger.Error("Failed to create user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.logger.Info("User created", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, user)
}

// Update applies a partial update to user scalar fields.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident := domain.ParseUserIdentifier(chi.URLParam(r, "userID"))

	var req UpdateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("User update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Update(r.Context(), ident, domain.UserPatch{
		CognitoUserID: req.CognitoUserID,
		Email:         req.Email,
		Name:          req.Name,
		Phone:         req.Phone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrNoFieldsToUpdate) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("Failed to update user", zap.String("user_id", ident.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// AddAddress adds a shipping address to a user.
func (h *UserHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	ident := domain.ParseUserIdentifier(chi.URLParam(r, "userID"))

	var req AddAddressRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Address validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	address, err := h.userService.AddAddress(r.Context(), ident, &domain.NewAddress{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("Failed to add address", zap.String("user_id", ident.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add address")
		return
	}

	h.logger.Info("Address added", zap.String("user_id", ident.String()), zap.Bool("is_default", address.IsDefault))
	middleware.RespondWithJSON(w, http.StatusCreated, address)
}
