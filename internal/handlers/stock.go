package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tunbiz/gestion/internal/httpx"
	"github.com/tunbiz/gestion/internal/models"
	"github.com/tunbiz/gestion/internal/validation"
)

// StockHandler serves supplier delivery notes / invoices and the
// articles received under them.
type StockHandler struct {
	DB *gorm.DB
}

func NewStockHandler(db *gorm.DB) *StockHandler { return &StockHandler{DB: db} }

func (h *StockHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /stock/documents", h.ListDocuments)
	mux.HandleFunc("POST /stock/documents", h.CreateDocument)
	mux.HandleFunc("GET /stock/documents/{id}", h.GetDocument)
	mux.HandleFunc("PUT /stock/documents/{id}", h.UpdateDocument)
	mux.HandleFunc("DELETE /stock/documents/{id}", h.DeleteDocument)
	mux.HandleFunc("POST /stock/documents/{id}/articles", h.AddArticle)
	mux.HandleFunc("DELETE /stock/documents/{id}/articles/{articleID}", h.DeleteArticle)
}

type stockDocumentReq struct {
	Ref         string `json:"ref"`
	Date        string `json:"date"`
	Description string `json:"description"`
	SupplierID  *uint  `json:"fournisseur"`
	Type        string `json:"type"`
}

type stockArticleReq struct {
	Code         string          `json:"code"`
	Designation  string          `json:"designation"`
	Quantite     int64           `json:"quantite"`
	PrixUnitaire decimal.Decimal `json:"prix_unitaire"`
	Description  string          `json:"description"`
}

func (req stockArticleReq) validate() validation.Violations {
	v := validation.Violations{}
	validation.PositiveInt("quantite", req.Quantite, v)
	validation.NonNegative("prix_unitaire", req.PrixUnitaire, v)
	return v
}

func (h *StockHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Preload("Articles").Preload("Supplier")
	if t := r.URL.Query().Get("type"); t != "" {
		dbq = dbq.Where("type = ?", t)
	}
	var docs []models.StockDocument
	if err := dbq.Order("date desc").Find(&docs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_documents", nil)
		return
	}
	for i := range docs {
		if docs[i].Articles == nil {
			docs[i].Articles = []models.StockArticle{}
		}
	}
	httpx.JSON(w, http.StatusOK, docs)
}

func (h *StockHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var doc models.StockDocument
	err := h.DB.Preload("Articles").Preload("Supplier").First(&doc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "document_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_document", nil)
		return
	}
	if doc.Articles == nil {
		doc.Articles = []models.StockArticle{}
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *StockHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req stockDocumentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("date", req.Date, v)
	date := parseDate("date", req.Date, v)
	if req.Type == "" {
		req.Type = models.StockDocumentBon
	}
	validation.OneOf("type", req.Type, models.StockDocumentTypes, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if req.SupplierID != nil {
		var supplier models.Supplier
		if err := h.DB.First(&supplier, *req.SupplierID).Error; err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_supplier", nil)
			return
		}
	}
	doc := models.StockDocument{
		Ref:         req.Ref,
		Date:        *date,
		Description: req.Description,
		SupplierID:  req.SupplierID,
		Type:        req.Type,
	}
	if err := h.DB.Omit(clause.Associations).Create(&doc).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_document", nil)
		return
	}
	doc.Articles = []models.StockArticle{}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *StockHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var doc models.StockDocument
	if err := h.DB.Preload("Articles").First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "document_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_document", nil)
		return
	}
	var req stockDocumentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("date", req.Date, v)
	date := parseDate("date", req.Date, v)
	if req.Type == "" {
		req.Type = models.StockDocumentBon
	}
	validation.OneOf("type", req.Type, models.StockDocumentTypes, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	doc.Ref = req.Ref
	doc.Date = *date
	doc.Description = req.Description
	doc.SupplierID = req.SupplierID
	doc.Type = req.Type
	if err := h.DB.Omit(clause.Associations).Save(&doc).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_document", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *StockHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.StockArticle{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.StockDocument{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "document_not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_document", nil)
		return
	}
	httpx.NoContent(w)
}

func (h *StockHandler) AddArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var doc models.StockDocument
	if err := h.DB.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "document_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_document", nil)
		return
	}
	var req stockArticleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	article := models.StockArticle{
		DocumentID:   &doc.ID,
		Code:         req.Code,
		Designation:  req.Designation,
		Quantite:     req.Quantite,
		PrixUnitaire: req.PrixUnitaire,
		Description:  req.Description,
	}
	if err := h.DB.Create(&article).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_article", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, article)
}

func (h *StockHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	articleID, ok := pathID(w, r, "articleID")
	if !ok {
		return
	}
	res := h.DB.Where("document_id = ?", docID).Delete(&models.StockArticle{}, articleID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_article", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "article_not_found", nil)
		return
	}
	httpx.NoContent(w)
}
