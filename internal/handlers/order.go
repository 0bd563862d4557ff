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
	"github.com/tunbiz/gestion/internal/pricing"
	"github.com/tunbiz/gestion/internal/services"
	"github.com/tunbiz/gestion/internal/validation"
)

// OrderHandler serves purchase orders and their line items. Every item
// mutation recomputes the stored totals and re-runs the withholding
// determination before persisting.
type OrderHandler struct {
	DB  *gorm.DB
	Svc *services.OrderService
}

func NewOrderHandler(db *gorm.DB, svc *services.OrderService) *OrderHandler {
	return &OrderHandler{DB: db, Svc: svc}
}

func (h *OrderHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /orders", h.List)
	mux.HandleFunc("POST /orders", h.Create)
	mux.HandleFunc("GET /orders/{id}", h.Get)
	mux.HandleFunc("PUT /orders/{id}", h.Update)
	mux.HandleFunc("DELETE /orders/{id}", h.Delete)
	mux.HandleFunc("POST /orders/{id}/mark-paid", h.MarkPaid)
	mux.HandleFunc("GET /orders/{id}/items", h.ListItems)
	mux.HandleFunc("POST /orders/{id}/items", h.AddItem)
	mux.HandleFunc("GET /orders/{id}/items/{itemID}", h.GetItem)
	mux.HandleFunc("DELETE /orders/{id}/items/{itemID}", h.RemoveItem)
}

type orderReq struct {
	Reference          string `json:"reference"`
	ClientID           uint   `json:"client"`
	Status             string `json:"status"`
	OrderType          string `json:"order_type"`
	Notes              string `json:"notes"`
	ExpectedFinishDate string `json:"expected_finish_date"`
	PaymentDate        string `json:"payment_date"`
}

func (req *orderReq) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("reference", req.Reference, v)
	if req.ClientID == 0 {
		v["client"] = "required"
	}
	if req.Status == "" {
		req.Status = models.OrderStatusDraft
	}
	if req.OrderType == "" {
		req.OrderType = models.OrderTypeGoods
	}
	validation.OneOf("status", req.Status, models.OrderStatuses, v)
	validation.OneOf("order_type", req.OrderType, models.OrderTypes, v)
	return v
}

// decorate fills the denormalized display names.
func decorate(o *models.PurchaseOrder) {
	o.ClientName = o.Client.Name
	for i := range o.Items {
		o.Items[i].ProductName = o.Items[i].Product.Name
	}
	if o.Items == nil {
		o.Items = []models.PurchaseOrderItem{}
	}
}

func (h *OrderHandler) load(w http.ResponseWriter, id uint) (*models.PurchaseOrder, bool) {
	var order models.PurchaseOrder
	err := h.DB.Preload("Client").Preload("Items").Preload("Items.Product").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
			return nil, false
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_order", nil)
		return nil, false
	}
	return &order, true
}

// persist saves the recomputed order and all its items atomically.
func (h *OrderHandler) persist(order *models.PurchaseOrder) error {
	return h.DB.Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			if err := tx.Omit(clause.Associations).Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(order).Error
	})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var orders []models.PurchaseOrder
	err := h.DB.Preload("Client").Preload("Items").Preload("Items.Product").
		Order("created_at desc").Find(&orders).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	for i := range orders {
		decorate(&orders[i])
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, ok := h.load(w, id)
	if !ok {
		return
	}
	decorate(order)
	httpx.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := req.validate()
	expected := parseDate("expected_finish_date", req.ExpectedFinishDate, v)
	payment := parseDate("payment_date", req.PaymentDate, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var client models.Client
	if err := h.DB.First(&client, req.ClientID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_client", nil)
		return
	}
	order := models.PurchaseOrder{
		Reference:          req.Reference,
		ClientID:           client.ID,
		Client:             client,
		Status:             req.Status,
		OrderType:          req.OrderType,
		Notes:              req.Notes,
		ExpectedFinishDate: expected,
		PaymentDate:        payment,
	}
	// A new order has zero totals; the determination still runs so the
	// withholding display state is correct from the start.
	if err := h.Svc.Recompute(&order); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", violationsOf(err))
		return
	}
	if err := h.DB.Omit(clause.Associations).Create(&order).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "failed_to_create_order", nil)
		return
	}
	decorate(&order)
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, ok := h.load(w, id)
	if !ok {
		return
	}
	var req orderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := req.validate()
	expected := parseDate("expected_finish_date", req.ExpectedFinishDate, v)
	payment := parseDate("payment_date", req.PaymentDate, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if req.ClientID != order.ClientID {
		var client models.Client
		if err := h.DB.First(&client, req.ClientID).Error; err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_client", nil)
			return
		}
		order.ClientID = client.ID
		order.Client = client
	}
	order.Reference = req.Reference
	order.Status = req.Status
	order.OrderType = req.OrderType
	order.Notes = req.Notes
	order.ExpectedFinishDate = expected
	order.PaymentDate = payment
	if err := h.Svc.Recompute(order); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", violationsOf(err))
		return
	}
	if err := h.persist(order); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_order", nil)
		return
	}
	decorate(order)
	httpx.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.PurchaseOrder{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_order", nil)
		return
	}
	httpx.NoContent(w)
}

func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, ok := h.load(w, id)
	if !ok {
		return
	}
	var req struct {
		PaymentDate string `json:"payment_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("payment_date", req.PaymentDate, v)
	payment := parseDate("payment_date", req.PaymentDate, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	order.Status = models.OrderStatusPaid
	order.PaymentDate = payment
	if err := h.DB.Omit(clause.Associations).Save(order).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_order", nil)
		return
	}
	decorate(order)
	httpx.JSON(w, http.StatusOK, order)
}

type itemReq struct {
	ProductID uint             `json:"product"`
	Quantity  int64            `json:"quantity"`
	Remise    decimal.Decimal  `json:"remise"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	TVARate   *decimal.Decimal `json:"tva_rate"`
}

func (h *OrderHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, ok := h.load(w, id)
	if !ok {
		return
	}
	decorate(order)
	httpx.JSON(w, http.StatusOK, order.Items)
}

func (h *OrderHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	var item models.PurchaseOrderItem
	err := h.DB.Preload("Product").Where("order_id = ?", orderID).First(&item, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "item_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_get_item", nil)
		return
	}
	item.ProductName = item.Product.Name
	httpx.JSON(w, http.StatusOK, item)
}

func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, ok := h.load(w, id)
	if !ok {
		return
	}
	var req itemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ProductID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"product": "required"})
		return
	}
	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_product", nil)
		return
	}
	item := models.PurchaseOrderItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Product:   product,
		Quantity:  req.Quantity,
		Remise:    req.Remise,
		// Snapshot current product pricing unless overridden.
		UnitPrice: product.UnitPrice,
		TVARate:   product.TVARate,
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
	if req.TVARate != nil {
		item.TVARate = *req.TVARate
	}
	order.Items = append(order.Items, item)
	if err := h.Svc.Recompute(order); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", violationsOf(err))
		return
	}
	if err := h.persist(order); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_add_item", nil)
		return
	}
	created := order.Items[len(order.Items)-1]
	created.ProductName = product.Name
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	order, ok := h.load(w, orderID)
	if !ok {
		return
	}
	kept := order.Items[:0]
	found := false
	for _, it := range order.Items {
		if it.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		httpx.JSONError(w, http.StatusNotFound, "item_not_found", nil)
		return
	}
	order.Items = kept
	if err := h.Svc.Recompute(order); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", violationsOf(err))
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PurchaseOrderItem{}, itemID).Error; err != nil {
			return err
		}
		for i := range order.Items {
			if err := tx.Omit(clause.Associations).Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(order).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_remove_item", nil)
		return
	}
	httpx.NoContent(w)
}

// violationsOf unwraps engine validation errors into the 400 payload.
func violationsOf(err error) any {
	var verr *pricing.ValidationError
	if errors.As(err, &verr) {
		return verr.Violations
	}
	return nil
}
