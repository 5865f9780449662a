package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/restaurant-api-nosql/internal/application/dish"
	"github.com/restaurant-api-nosql/internal/domain"
	"github.com/restaurant-api-nosql/internal/pkg/validate"
	"github.com/restaurant-api-nosql/internal/transport/http/middleware"
)

// maxImageUpload caps multipart dish image uploads at 10 MiB.
const maxImageUpload = 10 << 20

// DishHandler handles dish CRUD and image uploads.
type DishHandler struct {
	svc dish.Service
}

func NewDishHandler(svc dish.Service) *DishHandler {
	return &DishHandler{svc: svc}
}

func (h *DishHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	d, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Success: true, Message: "Dish created successfully.", Data: d})
}

func (h *DishHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Success: true, Message: "Dish updated successfully.", Data: d})
}

func (h *DishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Dish deleted successfully."})
}

func (h *DishHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")
	activeOnly := r.URL.Query().Get("include_inactive") != "true"
	dishes, next, err := h.svc.List(r.Context(), limit, cursor, activeOnly)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Success: true, Data: dishes, NextCursor: next})
}

func (h *DishHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.svc.ListByCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Success: true, Data: dishes})
}

func (h *DishHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Success: true, Data: d})
}

func (h *DishHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	d, err := h.svc.AttachImage(r.Context(), chi.URLParam(r, "id"), header.Filename, file)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Success: true, Message: "Image uploaded successfully.", Data: d})
}
