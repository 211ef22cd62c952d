package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/models"
)

func TestListHandler_Index_Empty(t *testing.T) {
	manager, s := loggedIn(1)
	h := &ListHandler{ListService: &fakeListService{}}

	rec := authedServe(t, manager, s, h.Index, "GET", "/api/lists", nil, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got []models.ListWithCounts
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected an empty JSON array, got %v", got)
	}
}

func TestListHandler_Index(t *testing.T) {
	manager, s := loggedIn(1)
	date := "2025-06-01"
	svc := &fakeListService{lists: []models.ListWithCounts{
		{PackingList: models.PackingList{ID: 2, Title: "Ski Trip"}},
		{PackingList: models.PackingList{ID: 1, Title: "Beach Trip", TripDate: &date}, TotalItems: 4, PackedItems: 2},
	}}
	h := &ListHandler{ListService: svc}

	rec := authedServe(t, manager, s, h.Index, "GET", "/api/lists", nil, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got []models.ListWithCounts
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(got))
	}
	if got[1].TripDate == nil || *got[1].TripDate != date {
		t.Errorf("trip_date = %v; want %s", got[1].TripDate, date)
	}
	if got[1].TotalItems != 4 || got[1].PackedItems != 2 {
		t.Errorf("counts = (%d, %d); want (4, 2)", got[1].TotalItems, got[1].PackedItems)
	}
}

func TestListHandler_Create(t *testing.T) {
	manager, s := loggedIn(1)
	svc := &fakeListService{createID: 5}
	h := &ListHandler{ListService: svc}

	rec := authedServe(t, manager, s, h.Create, "POST", "/api/lists", nil,
		`{"title":"Beach Trip","description":"sun and sand","trip_date":"2025-06-01"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	var payload map[string]int64
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if payload["id"] != 5 {
		t.Errorf("id = %d; want 5", payload["id"])
	}
	if svc.gotTripDate != "2025-06-01" {
		t.Errorf("trip date handed to service = %q; want 2025-06-01", svc.gotTripDate)
	}
}

func TestListHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeListService
		expectedCode int
	}{
		{
			name:         "invalid JSON",
			body:         `not a json`,
			service:      &fakeListService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "validation failure",
			body:         `{"title":""}`,
			service:      &fakeListService{createErr: fmt.Errorf("%w: title is required", apperr.ErrValidation)},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "store down",
			body:         `{"title":"Beach Trip"}`,
			service:      &fakeListService{createErr: apperr.ErrStoreUnavailable},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, s := loggedIn(1)
			h := &ListHandler{ListService: tt.service}
			rec := authedServe(t, manager, s, h.Create, "POST", "/api/lists", nil, tt.body)
			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
		})
	}
}

func TestListHandler_Get(t *testing.T) {
	manager, s := loggedIn(1)
	svc := &fakeListService{list: &models.ListWithCounts{
		PackingList: models.PackingList{ID: 9, Title: "Beach Trip"},
		TotalItems:  3,
		PackedItems: 1,
	}}
	h := &ListHandler{ListService: svc}

	rec := authedServe(t, manager, s, h.Get, "GET", "/api/lists/9", map[string]string{"listID": "9"}, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got models.ListWithCounts
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if got.ID != 9 || got.Title != "Beach Trip" || got.TotalItems != 3 {
		t.Errorf("unexpected list: %+v", got)
	}
}

func TestListHandler_Get_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		listID  string
		service *fakeListService
	}{
		{"not owned", "9", &fakeListService{getErr: apperr.ErrNotFound}},
		{"malformed id", "abc", &fakeListService{}},
		{"zero id", "0", &fakeListService{}},
		{"negative id", "-4", &fakeListService{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, s := loggedIn(2)
			h := &ListHandler{ListService: tt.service}
			rec := authedServe(t, manager, s, h.Get, "GET", "/api/lists/"+tt.listID, map[string]string{"listID": tt.listID}, "")
			if rec.Code != http.StatusNotFound {
				t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
			}
		})
	}
}

func TestListHandler_Update(t *testing.T) {
	manager, s := loggedIn(1)
	h := &ListHandler{ListService: &fakeListService{}}

	rec := authedServe(t, manager, s, h.Update, "PUT", "/api/lists/9", map[string]string{"listID": "9"},
		`{"title":"Beach Trip v2","trip_date":""}`)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}

func TestListHandler_Update_NotOwned(t *testing.T) {
	manager, s := loggedIn(2)
	h := &ListHandler{ListService: &fakeListService{updateErr: apperr.ErrNotFound}}

	rec := authedServe(t, manager, s, h.Update, "PUT", "/api/lists/9", map[string]string{"listID": "9"},
		`{"title":"Hijack"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestListHandler_Delete(t *testing.T) {
	manager, s := loggedIn(1)
	h := &ListHandler{ListService: &fakeListService{}}

	rec := authedServe(t, manager, s, h.Delete, "DELETE", "/api/lists/9", map[string]string{"listID": "9"}, "")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}

func TestListHandler_Delete_StoreDown(t *testing.T) {
	manager, s := loggedIn(1)
	h := &ListHandler{ListService: &fakeListService{deleteErr: apperr.ErrStoreUnavailable}}

	rec := authedServe(t, manager, s, h.Delete, "DELETE", "/api/lists/9", map[string]string{"listID": "9"}, "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}
