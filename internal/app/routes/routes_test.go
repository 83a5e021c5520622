package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arasfeld/rent-app/internal/domain/services/container"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/internal/infrastructure/storage"
	"github.com/arasfeld/rent-app/internal/test/testdb"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{
		DBDriver:       "sqlite",
		CORSOrigins:    []string{"http://localhost:3000"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		JWTSecretKey:   "test-secret",
		JWTAccessTTL:   time.Hour,
		JWTRefreshTTL:  24 * time.Hour,
		CacheTTL:       time.Minute,
		StorageDriver:  "local",
	}
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	c := container.NewServiceContainer(testdb.New(t), cfg, store)
	t.Cleanup(c.Close)

	return &testAPI{t: t, router: SetupRouter(c, cfg)}
}

func (a *testAPI) send(req *http.Request) *httptest.ResponseRecorder {
	if a.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// signUp registers a landlord and keeps its access token
func (a *testAPI) signUp(email string) map[string]interface{} {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email":     email,
		"password":  "password123",
		"firstName": "John",
		"lastName":  "Landlord",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(a.t, w)
	a.token = body["accessToken"].(string)
	return body
}

func (a *testAPI) create(path string, body interface{}) map[string]interface{} {
	a.t.Helper()
	w := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(a.t, w)
}

func propertyBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"name": name,
		"type": "apartment",
		"address": map[string]interface{}{
			"street":  "123 Main St",
			"city":    "Austin",
			"state":   "TX",
			"zipCode": "78701",
		},
		"monthlyRent": 1500,
	}
}

func tenantBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"firstName": "Sarah",
		"lastName":  "Johnson",
		"email":     email,
	}
}

func leaseBody(propertyID, tenantID string) map[string]interface{} {
	return map[string]interface{}{
		"propertyId":      propertyID,
		"tenantId":        tenantID,
		"type":            "fixed",
		"startDate":       "2024-01-01",
		"endDate":         "2030-12-31",
		"monthlyRent":     1500,
		"securityDeposit": 1500,
	}
}

func TestPingAndHealth(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w)["message"])

	w = api.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "up", checks["database"])
	assert.Equal(t, "disabled", checks["cache"])
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := api.send(req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.EqualValues(t, code.ErrTokenInvalid, decode(t, w)["code"])
		})
	}
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	registered := api.signUp("demo@rentapp.com")
	user := registered["user"].(map[string]interface{})
	assert.Equal(t, "demo@rentapp.com", user["email"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "password")
	assert.NotEmpty(t, registered["refreshToken"])

	w := api.do(http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email": "demo@rentapp.com", "password": "password123", "firstName": "A", "lastName": "B",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email": "not-an-email", "password": "short", "firstName": "A", "lastName": "B",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	msg := decode(t, w)["message"].(string)
	assert.Contains(t, msg, "email: must be a valid email")
	assert.Contains(t, msg, "password: must be at least 8")

	w = api.do(http.MethodPost, "/api/auth/login", map[string]interface{}{"email": "demo@rentapp.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["message"])

	w = api.do(http.MethodPost, "/api/auth/login", map[string]interface{}{"email": "demo@rentapp.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	api.token = decode(t, w)["accessToken"].(string)

	w = api.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "John", decode(t, w)["firstName"])

	w = api.do(http.MethodPatch, "/api/auth/profile", map[string]interface{}{"firstName": "Johnny", "phone": "555-0100"})
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	assert.Equal(t, "Johnny", profile["firstName"])
	assert.Equal(t, "555-0100", profile["phone"])

	w = api.do(http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["accessToken"])
}

func TestPropertyTenantLeasePaymentFlow(t *testing.T) {
	api := newTestAPI(t)
	api.signUp("owner@rentapp.com")

	w := api.do(http.MethodPost, "/api/properties", map[string]interface{}{"type": "castle"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	msg := decode(t, w)["message"].(string)
	assert.Contains(t, msg, "name: is required")
	assert.Contains(t, msg, "type: must be one of")

	property := api.create("/api/properties", propertyBody("Sunset Apartments"))
	propertyID := property["id"].(string)
	assert.Equal(t, "available", property["status"])
	assert.Equal(t, "USA", property["address"].(map[string]interface{})["country"])

	tenant := api.create("/api/tenants", tenantBody("sarah@example.com"))
	tenantID := tenant["id"].(string)
	assert.Equal(t, "pending", tenant["status"])

	lease := api.create("/api/leases", leaseBody(propertyID, tenantID))
	leaseID := lease["id"].(string)
	assert.Equal(t, "active", lease["status"])

	w = api.do(http.MethodPost, "/api/leases", leaseBody(propertyID, tenantID))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Property already has an active lease", decode(t, w)["message"])

	w = api.do(http.MethodGet, "/api/properties/"+propertyID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "occupied", decode(t, w)["status"])

	w = api.do(http.MethodGet, "/api/tenants/"+tenantID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", decode(t, w)["status"])

	w = api.do(http.MethodGet, "/api/properties?status=occupied&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.Len(t, list["data"], 1)
	assert.EqualValues(t, 5, list["meta"].(map[string]interface{})["limit"])

	w = api.do(http.MethodGet, "/api/properties?limit=500", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "limit: must be at most 100", decode(t, w)["message"])

	payment := api.create("/api/payments/record", map[string]interface{}{
		"leaseId": leaseID,
		"amount":  1500,
		"method":  "bank_transfer",
	})
	assert.Equal(t, "completed", payment["status"])
	assert.EqualValues(t, 1500, payment["totalAmount"])

	w = api.do(http.MethodGet, "/api/payments?leaseId="+leaseID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["meta"].(map[string]interface{})["total"])

	w = api.do(http.MethodGet, "/api/payments?dueDateFrom=yesterday", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["message"], "dueDateFrom: must be an ISO 8601 date")

	w = api.do(http.MethodGet, "/api/payments/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1500, decode(t, w)["totalCollected"])

	w = api.do(http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.EqualValues(t, 1, stats["totalProperties"])
	assert.EqualValues(t, 1, stats["activeLeases"])
	assert.EqualValues(t, 100, stats["occupancyRate"])

	w = api.do(http.MethodGet, "/api/dashboard/recent-activity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	activity := decode(t, w)
	require.Len(t, activity["recentPayments"], 1)
	recent := activity["recentPayments"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"name": "Sunset Apartments"}, recent["property"])

	w = api.do(http.MethodGet, "/api/dashboard/recent-activity?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/dashboard/financial-summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["monthlyRevenue"], 12)

	w = api.do(http.MethodPatch, "/api/leases/"+leaseID, map[string]interface{}{"status": "terminated"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.do(http.MethodGet, "/api/properties/"+propertyID, nil)
	assert.Equal(t, "available", decode(t, w)["status"])

	w = api.do(http.MethodDelete, "/api/leases/"+leaseID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, leaseID, decode(t, w)["id"])

	w = api.do(http.MethodGet, "/api/leases/"+leaseID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, code.ErrLeaseNotFound, decode(t, w)["code"])
}

func TestOwnersCannotSeeEachOthersData(t *testing.T) {
	api := newTestAPI(t)
	api.signUp("first@rentapp.com")
	property := api.create("/api/properties", propertyBody("First's Place"))
	propertyID := property["id"].(string)

	api.token = ""
	api.signUp("second@rentapp.com")

	w := api.do(http.MethodGet, "/api/properties/"+propertyID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPatch, "/api/properties/"+propertyID, map[string]interface{}{"name": "Mine now"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodDelete, "/api/properties/"+propertyID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/properties", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["data"])
}

func TestLeaseDocuments(t *testing.T) {
	api := newTestAPI(t)
	api.signUp("docs@rentapp.com")
	property := api.create("/api/properties", propertyBody("Maple House"))
	tenant := api.create("/api/tenants", tenantBody("tenant@example.com"))
	lease := api.create("/api/leases", leaseBody(property["id"].(string), tenant["id"].(string)))
	docsPath := "/api/leases/" + lease["id"].(string) + "/documents"

	upload := func(withFile bool) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("name", "Signed lease"))
		require.NoError(t, mw.WriteField("type", "lease_agreement"))
		if withFile {
			part, err := mw.CreateFormFile("file", "lease.pdf")
			require.NoError(t, err)
			_, err = part.Write([]byte("%PDF-1.4 lease"))
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, docsPath, &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return api.send(req)
	}

	w := upload(false)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "file: is required", decode(t, w)["message"])

	w = upload(true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	doc := decode(t, w)
	assert.Equal(t, "Signed lease", doc["name"])
	assert.Equal(t, "lease_agreement", doc["type"])
	docID := doc["id"].(string)

	w = api.do(http.MethodGet, docsPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, docID, list[0]["id"])

	w = api.do(http.MethodDelete, docsPath+"/"+docID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, docID, decode(t, w)["id"])

	w = api.do(http.MethodDelete, docsPath+"/"+docID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/properties", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := api.send(req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"https://app.example.com", "*"}).AllowAllOrigins)

	c := corsConfig([]string{"https://app.example.com"})
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"https://app.example.com"}, c.AllowOrigins)
}
