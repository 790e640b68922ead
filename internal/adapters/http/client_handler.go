package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"clienthub/internal/domain"
	"clienthub/internal/logger"
)

const maxUploadBytes = 10 << 20

type ClientHandler struct {
	svc domain.OnboardingService
	log logger.Logger
}

func NewClientHandler(svc domain.OnboardingService, log logger.Logger) *ClientHandler {
	return &ClientHandler{
		svc: svc,
		log: log,
	}
}

// Create registers a new client with the concurrent coordinator.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.svc.Register)
}

// CreateSequential registers a new client with the sequential fallback
// path: stop at the first failure, no compensation.
func (h *ClientHandler) CreateSequential(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.svc.RegisterSequential)
}

type registerFunc func(ctx context.Context, req domain.RegisterRequest, avatar []byte) (*domain.User, error)

func (h *ClientHandler) create(w http.ResponseWriter, r *http.Request, register registerFunc) {
	defer r.Body.Close()

	req, avatar, ok := h.decodeRegistration(w, r)
	if !ok {
		return
	}

	user, err := register(r.Context(), req, avatar)
	if err != nil {
		h.writeRegistrationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *ClientHandler) decodeRegistration(w http.ResponseWriter, r *http.Request) (domain.RegisterRequest, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid multipart form"})
		return domain.RegisterRequest{}, nil, false
	}

	req := domain.RegisterRequest{
		Gender:    r.FormValue("gender"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
	}

	if errs := ValidateStruct(&req); len(errs) > 0 {
		writeValidationError(w, errs)
		return domain.RegisterRequest{}, nil, false
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "avatar file is required"})
		return domain.RegisterRequest{}, nil, false
	}
	defer file.Close()

	avatar, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "failed to read avatar file"})
		return domain.RegisterRequest{}, nil, false
	}

	return req, avatar, true
}

// writeRegistrationError maps the coordinator's error taxonomy onto status
// codes. Internal faults never leak details to the caller.
func (h *ClientHandler) writeRegistrationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyRegistered):
		writeJSON(w, http.StatusConflict, &Response{
			Message: "email already registered",
			Detail:  err.Error(),
		})

	case errors.Is(err, domain.ErrInvalidImage), errors.Is(err, domain.ErrCombinedConflict):
		writeJSON(w, http.StatusBadRequest, &Response{
			Message: "invalid registration",
			Detail:  err.Error(),
		})

	case errors.Is(err, domain.ErrImageProcessing):
		h.log.Error("image processing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, &Response{Message: "image processing error"})

	default:
		h.log.Error("registration failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, &Response{Message: "an internal server error occurred"})
	}
}

func (h *ClientHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid user id"})
		return
	}

	user, err := h.svc.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, &Response{Message: "user not found"})
			return
		}

		h.log.Error("failed to get user", "id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, &Response{Message: "an internal server error occurred"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *ClientHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid user id"})
		return
	}

	if err := h.svc.DeleteByID(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, &Response{Message: "user not found"})
			return
		}

		h.log.Error("failed to delete user", "id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, &Response{Message: "an internal server error occurred"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
