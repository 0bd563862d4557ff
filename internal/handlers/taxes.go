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

// TaxHandler serves withholding tax reference data and treasury
// payment tracking.
type TaxHandler struct {
	DB *gorm.DB
}

func NewTaxHandler(db *gorm.DB) *TaxHandler { return &TaxHandler{DB: db} }

func (h *TaxHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /taxes/types", h.ListTypes)
	mux.HandleFunc("POST /taxes/types", h.CreateType)
	mux.HandleFunc("GET /taxes/types/{id}", h.GetType)
	mux.HandleFunc("PUT /taxes/types/{id}", h.UpdateType)
	mux.HandleFunc("DELETE /taxes/types/{id}", h.DeleteType)
	mux.HandleFunc("GET /taxes/payments", h.ListPayments)
	mux.HandleFunc("POST /taxes/payments", h.CreatePayment)
	mux.HandleFunc("PUT /taxes/payments/{id}", h.UpdatePayment)
	mux.HandleFunc("DELETE /taxes/payments/{id}", h.DeletePayment)
}

type taxTypeReq struct {
	Name                 string          `json:"name"`
	Code                 string          `json:"code"`
	Rate                 decimal.Decimal `json:"rate"`
	IsLiberatory         bool            `json:"is_liberatory"`
	IsDefinitive         bool            `json:"is_definitive"`
	AppliesToClientTypes string          `json:"applies_to_client_types"`
	MinimumAmount        decimal.Decimal `json:"minimum_amount"`
	Description          string          `json:"description"`
}

func (req taxTypeReq) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.Required("code", req.Code, v)
	validation.Percent("rate", req.Rate, v)
	validation.NonNegative("minimum_amount", req.MinimumAmount, v)
	return v
}

func (req taxTypeReq) apply(t *models.WithholdingTaxType) {
	t.Name = req.Name
	t.Code = req.Code
	t.Rate = req.Rate
	t.IsLiberatory = req.IsLiberatory
	t.IsDefinitive = req.IsDefinitive
	t.AppliesToClientTypes = req.AppliesToClientTypes
	t.MinimumAmount = req.MinimumAmount
	t.Description = req.Description
}

func (h *TaxHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	var types []models.WithholdingTaxType
	if err := h.DB.Order("id").Find(&types).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_tax_types", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, types)
}

func (h *TaxHandler) GetType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var taxType models.WithholdingTaxType
	if err := h.DB.First(&taxType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "tax_type_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_tax_type", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, taxType)
}

func (h *TaxHandler) CreateType(w http.ResponseWriter, r *http.Request) {
	var req taxTypeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var taxType models.WithholdingTaxType
	req.apply(&taxType)
	if err := h.DB.Create(&taxType).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_tax_type", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, taxType)
}

func (h *TaxHandler) UpdateType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var taxType models.WithholdingTaxType
	if err := h.DB.First(&taxType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "tax_type_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_tax_type", nil)
		return
	}
	var req taxTypeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	req.apply(&taxType)
	if err := h.DB.Save(&taxType).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_tax_type", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, taxType)
}

func (h *TaxHandler) DeleteType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res := h.DB.Delete(&models.WithholdingTaxType{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_tax_type", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "tax_type_not_found", nil)
		return
	}
	httpx.NoContent(w)
}

type taxPaymentReq struct {
	PurchaseOrderID    uint            `json:"purchase_order"`
	TaxTypeID          uint            `json:"tax_type"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentDate        string          `json:"payment_date"`
	IsPaidToTreasury   bool            `json:"is_paid_to_treasury"`
	TreasuryPaymentRef string          `json:"treasury_payment_ref"`
}

func (h *TaxHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	var payments []models.WithholdingTaxPayment
	err := h.DB.Preload("PurchaseOrder").Preload("TaxType").Order("id").Find(&payments).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_tax_payments", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, payments)
}

func (h *TaxHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req taxPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if req.PurchaseOrderID == 0 {
		v["purchase_order"] = "required"
	}
	if req.TaxTypeID == 0 {
		v["tax_type"] = "required"
	}
	validation.NonNegative("amount", req.Amount, v)
	validation.Required("payment_date", req.PaymentDate, v)
	date := parseDate("payment_date", req.PaymentDate, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var order models.PurchaseOrder
	if err := h.DB.First(&order, req.PurchaseOrderID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_purchase_order", nil)
		return
	}
	var taxType models.WithholdingTaxType
	if err := h.DB.First(&taxType, req.TaxTypeID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_tax_type", nil)
		return
	}
	payment := models.WithholdingTaxPayment{
		PurchaseOrderID:    order.ID,
		TaxTypeID:          taxType.ID,
		Amount:             req.Amount,
		PaymentDate:        *date,
		IsPaidToTreasury:   req.IsPaidToTreasury,
		TreasuryPaymentRef: req.TreasuryPaymentRef,
	}
	if err := h.DB.Omit(clause.Associations).Create(&payment).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_tax_payment", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *TaxHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payment models.WithholdingTaxPayment
	if err := h.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "tax_payment_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_tax_payment", nil)
		return
	}
	var req taxPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.NonNegative("amount", req.Amount, v)
	validation.Required("payment_date", req.PaymentDate, v)
	date := parseDate("payment_date", req.PaymentDate, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if req.PurchaseOrderID != 0 {
		payment.PurchaseOrderID = req.PurchaseOrderID
	}
	if req.TaxTypeID != 0 {
		payment.TaxTypeID = req.TaxTypeID
	}
	payment.Amount = req.Amount
	payment.PaymentDate = *date
	payment.IsPaidToTreasury = req.IsPaidToTreasury
	payment.TreasuryPaymentRef = req.TreasuryPaymentRef
	if err := h.DB.Omit(clause.Associations).Save(&payment).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_tax_payment", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, payment)
}

func (h *TaxHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res := h.DB.Delete(&models.WithholdingTaxPayment{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_tax_payment", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "tax_payment_not_found", nil)
		return
	}
	httpx.NoContent(w)
}
