package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"user-service/internal/dto/request"
	"user-service/internal/dto/response"
	"user-service/internal/usecase"
	"user-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgRegistrationFailed = "Registration failed"
	msgUserNotFound       = "User not found"
	msgUpdateFailed       = "User not found or update failed"
	msgInvalidBody        = "Invalid request body"
	msgValidationFailed   = "Validation failed"
	msgInternalError      = "Internal server error"
)

type UserHandler struct {
	service     usecase.UserService
	serviceName string
	log         *zap.Logger
}

func NewUserHandler(service usecase.UserService, serviceName string, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service:     service,
		serviceName: serviceName,
		log:         log,
	}
}

// Register handles POST /api/v1/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterUserRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, msgInvalidBody, nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, msgValidationFailed, validationErrors)
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		// Duplicate username and duplicate email are reported identically.
		switch {
		case errors.Is(err, usecase.ErrDuplicateUsername),
			errors.Is(err, usecase.ErrDuplicateEmail),
			errors.Is(err, usecase.ErrValidation):
			h.log.Warn("register rejected", zap.Error(err))
			utils.ResponseBadRequest(w, msgRegistrationFailed, nil)
		default:
			h.internalError(w, err, "register")
		}
		return
	}

	utils.ResponseCreated(w, user)
}

// GetByID handles GET /api/v1/users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseNotFound(w, msgUserNotFound)
		return
	}

	user, found, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		h.internalError(w, err, "get user by id")
		return
	}
	if !found {
		utils.ResponseNotFound(w, msgUserNotFound)
		return
	}

	utils.ResponseOK(w, user)
}

// GetByUsername handles GET /api/v1/users/username/{username}
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, found, err := h.service.GetUserByUsername(r.Context(), username)
	if err != nil {
		h.internalError(w, err, "get user by username")
		return
	}
	if !found {
		utils.ResponseNotFound(w, msgUserNotFound)
		return
	}

	utils.ResponseOK(w, user)
}

// ListActive handles GET /api/v1/users
func (h *UserHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllActiveUsers(r.Context())
	if err != nil {
		h.internalError(w, err, "list active users")
		return
	}

	utils.ResponseOK(w, users)
}

// Update handles PUT /api/v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseNotFound(w, msgUserNotFound)
		return
	}

	var req request.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, msgInvalidBody, nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, msgValidationFailed, validationErrors)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, &req)
	if err != nil {
		// Every business failure on update is reported as not found.
		switch {
		case errors.Is(err, usecase.ErrNotFound),
			errors.Is(err, usecase.ErrDuplicateUsername),
			errors.Is(err, usecase.ErrDuplicateEmail),
			errors.Is(err, usecase.ErrValidation):
			h.log.Warn("update rejected", zap.Error(err), zap.Int64("user_id", id))
			utils.ResponseNotFound(w, msgUpdateFailed)
		default:
			h.internalError(w, err, "update user")
		}
		return
	}

	utils.ResponseOK(w, user)
}

// Deactivate handles DELETE /api/v1/users/{id}
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseNotFound(w, msgUserNotFound)
		return
	}

	if err := h.service.DeactivateUser(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			h.log.Warn("deactivate failed - not found", zap.Int64("user_id", id))
			utils.ResponseNotFound(w, msgUserNotFound)
			return
		}
		h.internalError(w, err, "deactivate user")
		return
	}

	utils.ResponseNoContent(w)
}

// Stats handles GET /api/v1/users/stats
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.GetActiveUserCount(r.Context())
	if err != nil {
		h.internalError(w, err, "user stats")
		return
	}

	utils.ResponseOK(w, response.StatsResponse{
		ActiveUsers: count,
		Timestamp:   utils.NowMillis(),
	})
}

// Health handles GET /api/v1/users/health
func (h *UserHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.ResponseOK(w, response.HealthResponse{
		Status:    "UP",
		Service:   h.serviceName,
		Timestamp: strconv.FormatInt(utils.NowMillis(), 10),
	})
}

func (h *UserHandler) internalError(w http.ResponseWriter, err error, operation string) {
	h.log.Error("Failed to "+operation,
		zap.Error(err),
		zap.String("operation", operation))
	utils.ResponseInternalError(w, msgInternalError)
}
