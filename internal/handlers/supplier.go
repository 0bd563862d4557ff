package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/tunbiz/gestion/internal/httpx"
	"github.com/tunbiz/gestion/internal/models"
	"github.com/tunbiz/gestion/internal/validation"
)

type SupplierHandler struct {
	DB *gorm.DB
}

func NewSupplierHandler(db *gorm.DB) *SupplierHandler { return &SupplierHandler{DB: db} }

func (h *SupplierHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /suppliers", h.List)
	mux.HandleFunc("POST /suppliers", h.Create)
	mux.HandleFunc("GET /suppliers/{id}", h.Get)
	mux.HandleFunc("PUT /suppliers/{id}", h.Update)
	mux.HandleFunc("DELETE /suppliers/{id}", h.Delete)
}

type supplierReq struct {
	Nom             string `json:"nom"`
	MatriculeFiscal string `json:"matricule_fiscal"`
	Adresse         string `json:"adresse"`
	Telephone       string `json:"telephone"`
	Email           string `json:"email"`
}

func (req supplierReq) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nom", req.Nom, v)
	validation.Required("matricule_fiscal", req.MatriculeFiscal, v)
	return v
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	var suppliers []models.Supplier
	if err := h.DB.Order("id").Find(&suppliers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_suppliers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}

func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var supplier models.Supplier
	if err := h.DB.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "supplier_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_supplier", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req supplierReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	supplier := models.Supplier{
		Nom:             req.Nom,
		MatriculeFiscal: req.MatriculeFiscal,
		Adresse:         req.Adresse,
		Telephone:       req.Telephone,
		Email:           req.Email,
	}
	if err := h.DB.Create(&supplier).Error; err != nil {
		// matricule fiscal unique
		httpx.JSONError(w, http.StatusBadRequest, "failed_to_create_supplier", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, supplier)
}

func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var supplier models.Supplier
	if err := h.DB.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "supplier_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_supplier", nil)
		return
	}
	var req supplierReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	supplier.Nom = req.Nom
	supplier.MatriculeFiscal = req.MatriculeFiscal
	supplier.Adresse = req.Adresse
	supplier.Telephone = req.Telephone
	supplier.Email = req.Email
	if err := h.DB.Save(&supplier).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_supplier", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Supplier{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_supplier", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "supplier_not_found", nil)
		return
	}
	httpx.NoContent(w)
}
