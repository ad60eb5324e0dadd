package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/employee-api/internal/application/employee"
	"github.com/employee-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// maxPictureSize caps profile-picture uploads at 5 MiB.
const maxPictureSize = 5 << 20

// EmployeeHandler handles the employee CRUD endpoints.
type EmployeeHandler struct {
	svc employee.Service
}

func NewEmployeeHandler(svc employee.Service) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")

	items, next, err := h.svc.List(r.Context(), limit, cursor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Employee{}
	}
	writeJSON(w, http.StatusOK, PaginatedEmployeesEnvelope{Data: items, NextCursor: next})
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "employee deleted"})
}

// UploadProfilePicture accepts the raw image in the request body and returns
// a time-limited URL for the stored object.
func (h *EmployeeHandler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		writeError(w, http.StatusBadRequest, "Content-Type header is required")
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxPictureSize)
	url, err := h.svc.UploadProfilePicture(r.Context(), chi.URLParam(r, "id"), body, contentType)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profile_picture": url})
}
