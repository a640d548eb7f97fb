package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewBuffer(b)
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("integration-test-secret")
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func loginAdmin(t *testing.T, r *gin.Engine) string {
	t.Helper()
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	resp := performRequest(r, http.MethodPost, "/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": password}), "")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}
	return token
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)
	token := loginAdmin(t, r)

	// 1. Create two projects
	createProject := func(name string) float64 {
		resp := performRequest(r, http.MethodPost, "/projects", jsonBody(t, map[string]string{"name": name}), token)
		if resp.Code != 201 {
			t.Fatalf("create project failed status=%d body=%s", resp.Code, resp.Body.String())
		}
		var p map[string]any
		_ = json.Unmarshal(resp.Body.Bytes(), &p)
		id, _ := p["ID"].(float64)
		if id == 0 {
			t.Fatalf("no project id in response: %s", resp.Body.String())
		}
		return id
	}
	projA := createProject("ProjA-it")
	projB := createProject("ProjB-it")

	// 2. Creating a collaborator with an unknown project id must fail and persist nothing
	resp := performRequest(r, http.MethodPost, "/collaborators",
		jsonBody(t, map[string]any{"name": "Ghost", "projects": []float64{999999}}), token)
	if resp.Code != 400 {
		t.Fatalf("expected 400 for unknown project, got %d body=%s", resp.Code, resp.Body.String())
	}

	// 3. Create a collaborator on both projects with a rate
	resp = performRequest(r, http.MethodPost, "/collaborators",
		jsonBody(t, map[string]any{"name": "Alice-it", "projects": []float64{projA, projB}, "tjm": 500}), token)
	if resp.Code != 201 {
		t.Fatalf("create collaborator failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var created map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	collabID, _ := created["ID"].(float64)
	if collabID == 0 {
		t.Fatalf("no collaborator id in response: %s", resp.Body.String())
	}
	base := fmt.Sprintf("/collaborators/%.0f", collabID)

	// 4. Record days twice for the same key: idempotent upsert, last value wins
	for i := 0; i < 2; i++ {
		resp = performRequest(r, http.MethodPut, base+"/add-days",
			jsonBody(t, map[string]any{"projectId": projA, "days": 10, "month": "03", "year": 2025}), token)
		if resp.Code != 200 {
			t.Fatalf("add-days failed status=%d body=%s", resp.Code, resp.Body.String())
		}
	}
	resp = performRequest(r, http.MethodPut, base+"/add-days",
		jsonBody(t, map[string]any{"projectId": projB, "days": 5, "month": "03", "year": 2025}), token)
	if resp.Code != 200 {
		t.Fatalf("add-days failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Negative days are rejected
	resp = performRequest(r, http.MethodPut, base+"/add-days",
		jsonBody(t, map[string]any{"projectId": projA, "days": -1, "month": "03", "year": 2025}), token)
	if resp.Code != 400 {
		t.Fatalf("expected 400 for negative days, got %d", resp.Code)
	}

	// 6. Monthly view reports 10 and 5 for the period, 0 elsewhere
	resp = performRequest(r, http.MethodGet, base+"?month=03&year=2025", nil, token)
	if resp.Code != 200 {
		t.Fatalf("monthly view failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var view struct {
		Projects []struct {
			ProjectID  float64 `json:"projectId"`
			DaysWorked float64 `json:"daysWorked"`
		} `json:"projects"`
		Comments string `json:"comments"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &view)
	total := 0.0
	for _, p := range view.Projects {
		total += p.DaysWorked
	}
	if total != 15 {
		t.Fatalf("expected 15 days total for 03/2025, got %v (%s)", total, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, base+"?month=04&year=2025", nil, token)
	_ = json.Unmarshal(resp.Body.Bytes(), &view)
	for _, p := range view.Projects {
		if p.DaysWorked != 0 {
			t.Fatalf("expected 0 days outside the period, got %v", p.DaysWorked)
		}
	}

	// 7. Comment upsert creates the placeholder slot, then the view surfaces it
	resp = performRequest(r, http.MethodPut, base+"/comment",
		jsonBody(t, map[string]any{"comments": "mission terminée", "month": "06", "year": 2025}), token)
	if resp.Code != 200 {
		t.Fatalf("comment failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, base+"?month=06&year=2025", nil, token)
	_ = json.Unmarshal(resp.Body.Bytes(), &view)
	if view.Comments != "mission terminée" {
		t.Fatalf("expected comment surfaced, got %q", view.Comments)
	}

	// 8. Negative TJM rejected, valid TJM accepted
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/api/tjm/%.0f/update-tjm", collabID),
		jsonBody(t, map[string]any{"tjm": -10}), token)
	if resp.Code != 400 {
		t.Fatalf("expected 400 for negative tjm, got %d", resp.Code)
	}
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/api/tjm/%.0f/update-tjm", collabID),
		jsonBody(t, map[string]any{"tjm": 600}), token)
	if resp.Code != 200 {
		t.Fatalf("update tjm failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 9. Recap for 2025 includes the month and reconciles
	resp = performRequest(r, http.MethodGet, "/projects/recap?year=2025", nil, token)
	if resp.Code != 200 {
		t.Fatalf("recap failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var recaps []struct {
		Month    string `json:"month"`
		Projects []struct {
			TotalCost float64 `json:"totalCost"`
		} `json:"projects"`
		TotalMonthCost float64 `json:"totalMonthCost"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &recaps)
	found := false
	for _, mr := range recaps {
		sum := 0.0
		for _, p := range mr.Projects {
			sum += p.TotalCost
		}
		if sum != mr.TotalMonthCost {
			t.Fatalf("month %s does not reconcile: %v != %v", mr.Month, sum, mr.TotalMonthCost)
		}
		if mr.Month == "03" {
			found = true
		}
	}
	if !found {
		t.Fatalf("recap missing month 03: %s", resp.Body.String())
	}

	// 10. Excel exports respond with a workbook
	resp = performRequest(r, http.MethodGet, "/export/monthly?month=03&year=2025", nil, token)
	if resp.Code != 200 || resp.Body.Len() == 0 {
		t.Fatalf("monthly export failed status=%d", resp.Code)
	}
	resp = performRequest(r, http.MethodGet, "/export/recap?year=2025", nil, token)
	if resp.Code != 200 || resp.Body.Len() == 0 {
		t.Fatalf("recap export failed status=%d", resp.Code)
	}

	// 11. Delete the collaborator and its whole ledger
	resp = performRequest(r, http.MethodDelete, base, nil, token)
	if resp.Code != 200 {
		t.Fatalf("delete collaborator failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodDelete, base, nil, token)
	if resp.Code != 404 {
		t.Fatalf("expected 404 on second delete, got %d", resp.Code)
	}
}
