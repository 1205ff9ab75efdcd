package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"goldgym/pkg/sheet"
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

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("integration-test-secret")
	initDB(os.Getenv("DB_DSN"))
	seedCatalogue(t)
	r := gin.Default()
	setupRoutes(r)
	return r
}

// seedCatalogue makes sure at least one processed row exists to list.
func seedCatalogue(t *testing.T) {
	t.Helper()
	row := sheet.Row{
		Index: 9001, UID: "9001", Title: "integration test gym", Model: "iphone se",
		Style: "gold", Victories: 3, Days: 2, Defended: 2, Treats: 1,
		Latlon: "40.7,-73.9", City: "brooklyn", County: "kings", State: "new york",
	}
	if err := db.Save(&row).Error; err != nil {
		t.Fatalf("seed catalogue row: %v", err)
	}
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "passw1"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "passw1"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}
	refresh, _ := loginResp["refresh_token"].(string)
	if refresh == "" {
		t.Fatalf("empty refresh token in login response: %+v", loginResp)
	}

	// 3. Whoami
	resp = performRequest(r, http.MethodGet, "/me", nil, token)
	if resp.Code != 200 {
		t.Fatalf("me failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 4. List gyms, filtered to the seeded row's state
	resp = performRequest(r, http.MethodGet, "/gyms?state=new+york", nil, token)
	if resp.Code != 200 {
		t.Fatalf("gyms failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var rows []sheet.Row
	if err := json.Unmarshal(resp.Body.Bytes(), &rows); err != nil {
		t.Fatalf("gyms response: %v", err)
	}
	found := false
	for _, row := range rows {
		if row.UID == "9001" {
			found = true
		}
		if !row.Processed() {
			t.Fatalf("listing returned an unprocessed row: %+v", row)
		}
	}
	if !found {
		t.Fatalf("seeded gym missing from listing: %+v", rows)
	}

	// 5. Single gym by uid
	resp = performRequest(r, http.MethodGet, "/gyms/9001", nil, token)
	if resp.Code != 200 {
		t.Fatalf("gym by uid failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Summary aggregates by style
	resp = performRequest(r, http.MethodGet, "/gyms/summary", nil, token)
	if resp.Code != 200 {
		t.Fatalf("summary failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 7. Refresh rotates the refresh token
	rb, _ := json.Marshal(map[string]string{"refresh_token": refresh})
	resp = performRequest(r, http.MethodPost, "/refresh", bytes.NewBuffer(rb), "")
	if resp.Code != 200 {
		t.Fatalf("refresh failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var refreshResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &refreshResp)
	rotated, _ := refreshResp["refresh_token"].(string)
	if rotated == "" || rotated == refresh {
		t.Fatalf("refresh token not rotated: %+v", refreshResp)
	}

	// old refresh token must be dead after rotation
	resp = performRequest(r, http.MethodPost, "/refresh", bytes.NewBuffer(rb), "")
	if resp.Code != 401 {
		t.Fatalf("revoked refresh token accepted: status=%d", resp.Code)
	}

	// 8. Revoke the rotated token
	rb, _ = json.Marshal(map[string]string{"refresh_token": rotated})
	resp = performRequest(r, http.MethodPost, "/revoke_refresh", bytes.NewBuffer(rb), "")
	if resp.Code != 200 {
		t.Fatalf("revoke failed status=%d body=%s", resp.Code, resp.Body.String())
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	r := setupTestServer(t)
	for _, path := range []string{"/me", "/gyms", "/gyms/summary", "/gyms/9001"} {
		resp := performRequest(r, http.MethodGet, path, nil, "")
		if resp.Code != 401 {
			t.Fatalf("%s without token: status=%d", path, resp.Code)
		}
	}
}
