package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tunbiz/gestion/internal/db"
	"github.com/tunbiz/gestion/internal/models"
	"github.com/tunbiz/gestion/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func orderMux(t *testing.T, conn *gorm.DB) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewOrderHandler(conn, services.NewOrderService()).Register(mux)
	return mux
}

func seedOrderFixtures(t *testing.T, conn *gorm.DB) (models.Client, models.Product) {
	t.Helper()
	client := models.Client{Name: "STE Client", ClientType: models.ClientTypeCompany, TaxRegime: models.TaxRegimeReal, IsResident: true}
	if err := conn.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	product := models.Product{
		Name:      "Ciment",
		Code:      "CIM-01",
		UnitPrice: decimal.RequireFromString("10.00"),
		TVARate:   decimal.RequireFromString("19.00"),
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	return client, product
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestOrderCreateStartsExcludedBelowThreshold(t *testing.T) {
	conn := setupTestDB(t)
	client, _ := seedOrderFixtures(t, conn)
	mux := orderMux(t, conn)

	body := fmt.Sprintf(`{"reference":"BC-2026-001","client":%d,"order_type":"GOODS"}`, client.ID)
	w := doJSON(t, mux, http.MethodPost, "/orders", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.PurchaseOrder
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != models.OrderStatusDraft {
		t.Fatalf("status: %s", created.Status)
	}
	if !created.TotalTTC.IsZero() {
		t.Fatalf("new order TTC should be zero, got %s", created.TotalTTC)
	}
	if !created.WithholdingTaxExcluded || created.WithholdingExclusionReason != "Montant inférieur à 1000D TTC" {
		t.Fatalf("withholding: excluded=%v reason=%q", created.WithholdingTaxExcluded, created.WithholdingExclusionReason)
	}
}

func TestOrderAddItemRecomputesTotals(t *testing.T) {
	conn := setupTestDB(t)
	client, product := seedOrderFixtures(t, conn)
	mux := orderMux(t, conn)

	w := doJSON(t, mux, http.MethodPost, "/orders", fmt.Sprintf(`{"reference":"BC-1","client":%d}`, client.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: %d %s", w.Code, w.Body.String())
	}
	var order models.PurchaseOrder
	_ = json.Unmarshal(w.Body.Bytes(), &order)

	// 3 × 10.00 − 10% remise = 27.00 HT, 5.13 TVA, 32.13 TTC
	itemBody := fmt.Sprintf(`{"product":%d,"quantity":3,"remise":"10"}`, product.ID)
	w = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/orders/%d/items", order.ID), itemBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: %d %s", w.Code, w.Body.String())
	}
	var item models.PurchaseOrderItem
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if !item.TotalHT.Equal(decimal.RequireFromString("27")) {
		t.Fatalf("item total_ht: %s", item.TotalHT)
	}
	if !item.TVAAmount.Equal(decimal.RequireFromString("5.13")) {
		t.Fatalf("item tva: %s", item.TVAAmount)
	}
	if item.ProductName != "Ciment" {
		t.Fatalf("product name: %q", item.ProductName)
	}

	w = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("get order: %d", w.Code)
	}
	var reloaded models.PurchaseOrder
	if err := json.Unmarshal(w.Body.Bytes(), &reloaded); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if !reloaded.TotalHT.Equal(decimal.RequireFromString("27")) ||
		!reloaded.TotalTVA.Equal(decimal.RequireFromString("5.13")) ||
		!reloaded.TotalTTC.Equal(decimal.RequireFromString("32.13")) {
		t.Fatalf("order totals: ht=%s tva=%s ttc=%s", reloaded.TotalHT, reloaded.TotalTVA, reloaded.TotalTTC)
	}
	if reloaded.ClientName != "STE Client" {
		t.Fatalf("client name: %q", reloaded.ClientName)
	}
}

func TestOrderWithholdingAppliedOnLargeOrder(t *testing.T) {
	conn := setupTestDB(t)
	client, product := seedOrderFixtures(t, conn)
	mux := orderMux(t, conn)

	w := doJSON(t, mux, http.MethodPost, "/orders", fmt.Sprintf(`{"reference":"BC-BIG","client":%d}`, client.ID))
	var order models.PurchaseOrder
	_ = json.Unmarshal(w.Body.Bytes(), &order)

	// 200 × 10.00 × 1.19 = 2380.00 TTC, above the 1000D threshold
	w = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/orders/%d/items", order.ID),
		fmt.Sprintf(`{"product":%d,"quantity":200,"remise":"0"}`, product.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), "")
	var reloaded models.PurchaseOrder
	if err := json.Unmarshal(w.Body.Bytes(), &reloaded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reloaded.TotalTTC.Equal(decimal.RequireFromString("2380")) {
		t.Fatalf("ttc: %s", reloaded.TotalTTC)
	}
	if !reloaded.WithholdingTaxApplied {
		t.Fatal("withholding should be applied")
	}
	if !reloaded.WithholdingTaxRate.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("rate: %s", reloaded.WithholdingTaxRate)
	}
	// 2380 × 1.5% = 35.70
	if !reloaded.WithholdingTaxAmount.Equal(decimal.RequireFromString("35.7")) {
		t.Fatalf("amount: %s", reloaded.WithholdingTaxAmount)
	}
}

func TestOrderAddItemRejectsInvalidRemise(t *testing.T) {
	conn := setupTestDB(t)
	client, product := seedOrderFixtures(t, conn)
	mux := orderMux(t, conn)

	w := doJSON(t, mux, http.MethodPost, "/orders", fmt.Sprintf(`{"reference":"BC-X","client":%d}`, client.ID))
	var order models.PurchaseOrder
	_ = json.Unmarshal(w.Body.Bytes(), &order)

	w = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/orders/%d/items", order.ID),
		fmt.Sprintf(`{"product":%d,"quantity":1,"remise":"150"}`, product.ID))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	// no item persisted
	var count int64
	conn.Model(&models.PurchaseOrderItem{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no items, got %d", count)
	}
}

func TestOrderRemoveItemRecomputes(t *testing.T) {
	conn := setupTestDB(t)
	client, product := seedOrderFixtures(t, conn)
	mux := orderMux(t, conn)

	w := doJSON(t, mux, http.MethodPost, "/orders", fmt.Sprintf(`{"reference":"BC-RM","client":%d}`, client.ID))
	var order models.PurchaseOrder
	_ = json.Unmarshal(w.Body.Bytes(), &order)

	w = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/orders/%d/items", order.ID),
		fmt.Sprintf(`{"product":%d,"quantity":3,"remise":"10"}`, product.ID))
	var item models.PurchaseOrderItem
	_ = json.Unmarshal(w.Body.Bytes(), &item)

	w = doJSON(t, mux, http.MethodDelete, fmt.Sprintf("/orders/%d/items/%d", order.ID, item.ID), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("remove item: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), "")
	var reloaded models.PurchaseOrder
	_ = json.Unmarshal(w.Body.Bytes(), &reloaded)
	if !reloaded.TotalTTC.IsZero() {
		t.Fatalf("ttc after removal: %s", reloaded.TotalTTC)
	}
	if len(reloaded.Items) != 0 {
		t.Fatalf("items left: %d", len(reloaded.Items))
	}
}

func TestOrderMarkPaid(t *testing.T) {
	conn := setupTestDB(t)
	client, _ := seedOrderFixtures(t, conn)
	mux := orderMux(t, conn)

	w := doJSON(t, mux, http.MethodPost, "/orders", fmt.Sprintf(`{"reference":"BC-PAY","client":%d,"status":"CONFIRMED"}`, client.ID))
	var order models.PurchaseOrder
	_ = json.Unmarshal(w.Body.Bytes(), &order)

	w = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/orders/%d/mark-paid", order.ID), `{"payment_date":"2026-08-15"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("mark paid: %d %s", w.Code, w.Body.String())
	}
	var paid models.PurchaseOrder
	_ = json.Unmarshal(w.Body.Bytes(), &paid)
	if paid.Status != models.OrderStatusPaid {
		t.Fatalf("status: %s", paid.Status)
	}
	if paid.PaymentDate == nil {
		t.Fatal("payment date not set")
	}
}

func TestOrderCreateRejectsUnknownClient(t *testing.T) {
	conn := setupTestDB(t)
	mux := orderMux(t, conn)
	w := doJSON(t, mux, http.MethodPost, "/orders", `{"reference":"BC-NOPE","client":999}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestOrderCreateRejectsBadStatus(t *testing.T) {
	conn := setupTestDB(t)
	client, _ := seedOrderFixtures(t, conn)
	mux := orderMux(t, conn)
	w := doJSON(t, mux, http.MethodPost, "/orders", fmt.Sprintf(`{"reference":"BC-ST","client":%d,"status":"SHIPPED"}`, client.ID))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestOrderDeleteCascadesItems(t *testing.T) {
	conn := setupTestDB(t)
	client, product := seedOrderFixtures(t, conn)
	mux := orderMux(t, conn)

	w := doJSON(t, mux, http.MethodPost, "/orders", fmt.Sprintf(`{"reference":"BC-DEL","client":%d}`, client.ID))
	var order models.PurchaseOrder
	_ = json.Unmarshal(w.Body.Bytes(), &order)
	doJSON(t, mux, http.MethodPost, fmt.Sprintf("/orders/%d/items", order.ID),
		fmt.Sprintf(`{"product":%d,"quantity":1,"remise":"0"}`, product.ID))

	w = doJSON(t, mux, http.MethodDelete, fmt.Sprintf("/orders/%d", order.ID), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	var itemCount int64
	conn.Model(&models.PurchaseOrderItem{}).Count(&itemCount)
	if itemCount != 0 {
		t.Fatalf("items not cascaded: %d", itemCount)
	}
}
