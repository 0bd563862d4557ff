package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/tunbiz/gestion/internal/models"
)

func TestClientCRUD(t *testing.T) {
	conn := setupTestDB(t)
	mux := http.NewServeMux()
	NewClientHandler(conn).Register(mux)

	w := doJSON(t, mux, http.MethodPost, "/clients",
		`{"name":"STE Batiment","client_type":"COMPANY","tax_regime":"REAL","tax_identification":"1234567A"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created models.Client
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.IsResident {
		t.Fatal("is_resident should default to true")
	}

	w = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/clients/%d", created.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}

	w = doJSON(t, mux, http.MethodPut, fmt.Sprintf("/clients/%d", created.ID),
		`{"name":"STE Batiment SARL","client_type":"COMPANY","tax_regime":"REAL","is_resident":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var updated models.Client
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Name != "STE Batiment SARL" || updated.IsResident {
		t.Fatalf("update not applied: %+v", updated)
	}

	w = doJSON(t, mux, http.MethodDelete, fmt.Sprintf("/clients/%d", created.ID), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	w = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/clients/%d", created.ID), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", w.Code)
	}
}

func TestClientCreateValidation(t *testing.T) {
	conn := setupTestDB(t)
	mux := http.NewServeMux()
	NewClientHandler(conn).Register(mux)

	w := doJSON(t, mux, http.MethodPost, "/clients", `{"client_type":"COMPANY"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing name should 400, got %d", w.Code)
	}
	w = doJSON(t, mux, http.MethodPost, "/clients", `{"name":"X","client_type":"ALIEN"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad client_type should 400, got %d", w.Code)
	}
	w = doJSON(t, mux, http.MethodGet, "/clients/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id should 400, got %d", w.Code)
	}
}
