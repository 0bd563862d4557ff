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

type EmployeeHandler struct {
	DB *gorm.DB
}

func NewEmployeeHandler(db *gorm.DB) *EmployeeHandler { return &EmployeeHandler{DB: db} }

func (h *EmployeeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /employees", h.List)
	mux.HandleFunc("POST /employees", h.Create)
	mux.HandleFunc("GET /employees/{id}", h.Get)
	mux.HandleFunc("PUT /employees/{id}", h.Update)
	mux.HandleFunc("DELETE /employees/{id}", h.Delete)
}

type employeeReq struct {
	Name     string           `json:"name"`
	Position string           `json:"position"`
	HireDate string           `json:"hire_date"`
	Phone    string           `json:"phone"`
	Address  string           `json:"address"`
	Salary   *decimal.Decimal `json:"salary"`
	IsActive *bool            `json:"is_active"`
}

func (req employeeReq) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	if req.Salary != nil {
		validation.NonNegative("salary", *req.Salary, v)
	}
	return v
}

func (req employeeReq) apply(e *models.Employee, v validation.Violations) {
	e.Name = req.Name
	e.Position = req.Position
	e.HireDate = parseDate("hire_date", req.HireDate, v)
	e.Phone = req.Phone
	e.Address = req.Address
	e.Salary = req.Salary
	e.IsActive = req.IsActive == nil || *req.IsActive
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	var employees []models.Employee
	if err := h.DB.Order("name").Find(&employees).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_employees", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var employee models.Employee
	if err := h.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "employee_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_employee", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := req.validate()
	var employee models.Employee
	req.apply(&employee, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.DB.Create(&employee).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_employee", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, employee)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var employee models.Employee
	if err := h.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "employee_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_employee", nil)
		return
	}
	var req employeeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := req.validate()
	req.apply(&employee, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.DB.Save(&employee).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_employee", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Employee{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_employee", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "employee_not_found", nil)
		return
	}
	httpx.NoContent(w)
}
