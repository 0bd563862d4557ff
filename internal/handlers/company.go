package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tunbiz/gestion/internal/httpx"
	"github.com/tunbiz/gestion/internal/models"
	"github.com/tunbiz/gestion/internal/validation"
)

// CompanyHandler manages the owning company record. GET returns the
// single row when present; POST creates or replaces it.
type CompanyHandler struct {
	DB *gorm.DB
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler { return &CompanyHandler{DB: db} }

func (h *CompanyHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /company", h.Get)
	mux.HandleFunc("POST /company", h.Upsert)
	mux.HandleFunc("PUT /company", h.Upsert)
}

type companyReq struct {
	Name              string           `json:"name"`
	LegalName         string           `json:"legal_name"`
	CompanyType       string           `json:"company_type"`
	TaxIdentification string           `json:"tax_identification"`
	TradeRegister     string           `json:"trade_register"`
	Address           string           `json:"address"`
	PhoneNumber       string           `json:"phone_number"`
	Email             string           `json:"email"`
	Website           string           `json:"website"`
	FoundingDate      string           `json:"founding_date"`
	Capital           *decimal.Decimal `json:"capital"`
	BankName          string           `json:"bank_name"`
	BankAccount       string           `json:"bank_account"`
	BankRIB           string           `json:"bank_rib"`
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	var company models.CompanyInfo
	if err := h.DB.First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "company_not_configured", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_company", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req companyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.Required("tax_identification", req.TaxIdentification, v)
	validation.Required("phone_number", req.PhoneNumber, v)
	validation.Required("email", req.Email, v)
	validation.OneOf("company_type", req.CompanyType, models.CompanyTypes, v)
	founding := parseDate("founding_date", req.FoundingDate, v)
	if req.Capital != nil {
		validation.NonNegative("capital", *req.Capital, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	var company models.CompanyInfo
	created := false
	if err := h.DB.First(&company).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_company", nil)
			return
		}
		created = true
	}
	company.Name = req.Name
	company.LegalName = req.LegalName
	company.CompanyType = req.CompanyType
	company.TaxIdentification = req.TaxIdentification
	company.TradeRegister = req.TradeRegister
	company.Address = req.Address
	company.PhoneNumber = req.PhoneNumber
	company.Email = req.Email
	company.Website = req.Website
	company.FoundingDate = founding
	company.Capital = req.Capital
	company.BankName = req.BankName
	company.BankAccount = req.BankAccount
	company.BankRIB = req.BankRIB
	if err := h.DB.Save(&company).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_company", nil)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, company)
}
