package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bulletin-engine/internal/importer"
)

func TestContactsImportHandler(t *testing.T) {
	d := testDeps(t)
	h := ContactsHandler{Deps: d}

	body := `{"records":[
		{"firstName":"Marie","lastName":"Dupont"},
		{"firstName":"marie","lastName":"DUPONT"},
		{"firstName":"","lastName":"Sans-Prénom"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/contacts/import", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Import(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var res importer.ContactResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Created != 1 || res.Duplicates != 1 || res.Errors != 1 {
		t.Fatalf("result: %+v", res)
	}
}

func TestContactsImportHandlerRejectsEmpty(t *testing.T) {
	h := ContactsHandler{Deps: testDeps(t)}

	req := httptest.NewRequest(http.MethodPost, "/contacts/import", strings.NewReader(`{"records":[]}`))
	w := httptest.NewRecorder()
	h.Import(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
}
