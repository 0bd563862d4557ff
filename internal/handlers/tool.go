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

type ToolHandler struct {
	DB *gorm.DB
}

func NewToolHandler(db *gorm.DB) *ToolHandler { return &ToolHandler{DB: db} }

func (h *ToolHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /tools", h.List)
	mux.HandleFunc("POST /tools", h.Create)
	mux.HandleFunc("GET /tools/{id}", h.Get)
	mux.HandleFunc("PUT /tools/{id}", h.Update)
	mux.HandleFunc("DELETE /tools/{id}", h.Delete)
}

type toolReq struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	Description     string `json:"description"`
	Supplier        string `json:"supplier"`
	PurchaseDate    string `json:"purchase_date"`
	Quantity        *int64 `json:"quantity"`
	Condition       string `json:"condition"`
	Location        string `json:"location"`
	LastMaintenance string `json:"last_maintenance"`
}

func (req *toolReq) validate() (validation.Violations, *models.Tool) {
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	if req.Condition == "" {
		req.Condition = models.ToolConditionGood
	}
	validation.OneOf("condition", req.Condition, models.ToolConditions, v)
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
		validation.PositiveInt("quantity", qty, v)
	}
	purchase := parseDate("purchase_date", req.PurchaseDate, v)
	maintenance := parseDate("last_maintenance", req.LastMaintenance, v)
	if !v.Empty() {
		return v, nil
	}
	return v, &models.Tool{
		Name:            req.Name,
		Type:            req.Type,
		Description:     req.Description,
		Supplier:        req.Supplier,
		PurchaseDate:    purchase,
		Quantity:        qty,
		Condition:       req.Condition,
		Location:        req.Location,
		LastMaintenance: maintenance,
	}
}

func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	var tools []models.Tool
	if err := h.DB.Order("id").Find(&tools).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_tools", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, tools)
}

func (h *ToolHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var tool models.Tool
	if err := h.DB.First(&tool, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "tool_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_tool", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req toolReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v, tool := req.validate()
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.DB.Create(tool).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_tool", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, tool)
}

func (h *ToolHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var existing models.Tool
	if err := h.DB.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "tool_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_tool", nil)
		return
	}
	var req toolReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v, tool := req.validate()
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	tool.ID = existing.ID
	tool.CreatedAt = existing.CreatedAt
	if err := h.DB.Save(tool).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_tool", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Tool{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_tool", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "tool_not_found", nil)
		return
	}
	httpx.NoContent(w)
}
