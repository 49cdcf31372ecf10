package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8gymsport-prog/penjualan/internal/auth"
	"github.com/8gymsport-prog/penjualan/internal/models"
)

const testSecret = "test-secret"

var wib = time.FixedZone("WIB", 7*3600)

type testAPI struct {
	handler  *Handler
	router   http.Handler
	accounts *fakeAccounts
	catalog  *fakeCatalog
	sales    *fakeSales
	chats    *fakeChats
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	a := &testAPI{
		accounts: newFakeAccounts(),
		catalog:  newFakeCatalog(),
		sales:    &fakeSales{},
		chats:    &fakeChats{},
	}
	a.handler = NewHandler(Deps{
		Accounts: a.accounts,
		Catalog:  a.catalog,
		Sales:    a.sales,
		Chats:    a.chats,
		Health:   map[string]Pinger{"postgres": stubPinger{}},
	}, Options{
		RateLimitRequests:  10,
		RateLimitWindow:    time.Minute,
		MaxAvatarBytes:     32,
		Location:           wib,
		CORSAllowedOrigins: []string{"*"},
	})
	a.handler.now = func() time.Time { return time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC) }
	a.router = a.handler.Router(auth.NewMiddleware(testSecret))
	return a
}

func (a *testAPI) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		token, err := auth.IssueToken(testSecret, user, user+"@kassa.id", time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileCreatedOnFirstRequest(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/profile", "budi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody[models.User](t, rec)
	assert.Equal(t, "budi", user.ID)
	assert.Equal(t, "budi@kassa.id", user.Email)

	rec = a.do(t, http.MethodPatch, "/api/profile", "budi", models.UsernameInput{Username: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.MsgUsername, decodeBody[errorResponse](t, rec).Fields["username"])

	rec = a.do(t, http.MethodPatch, "/api/profile", "budi", models.UsernameInput{Username: "Toko Budi"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Toko Budi", decodeBody[models.User](t, rec).Username)
}

func TestProductRoutes(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/products", "budi", `{"name":"Kopi","price":15000}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	product := decodeBody[models.Product](t, rec)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(15000)))

	rec = a.do(t, http.MethodPost, "/api/products", "budi", `{"name":"K","price":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeBody[errorResponse](t, rec).Fields
	assert.Equal(t, models.MsgProductName, fields["name"])
	assert.Equal(t, models.MsgProductPrice, fields["price"])

	rec = a.do(t, http.MethodPost, "/api/products", "budi", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgBadRequest, decodeBody[errorResponse](t, rec).Error)

	rec = a.do(t, http.MethodGet, "/api/products", "budi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.Product](t, rec), 1)

	rec = a.do(t, http.MethodGet, "/api/products", "sari", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = a.do(t, http.MethodPut, "/api/products/"+product.ID, "sari", `{"name":"Curian","price":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNotFound, decodeBody[errorResponse](t, rec).Error)

	rec = a.do(t, http.MethodDelete, "/api/products/"+product.ID, "budi", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTransactionRoutes(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/transactions", "budi", `{"productId":"","quantity":0,"payments":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeBody[errorResponse](t, rec).Fields
	assert.Equal(t, models.MsgProductRequired, fields["productId"])
	assert.Equal(t, models.MsgPaymentsRequired, fields["payments"])

	rec = a.do(t, http.MethodPost, "/api/transactions/quick", "budi",
		`{"productName":"Es Teh","quantity":2,"price":"5000","paymentMethod":"QR"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	tx := decodeBody[models.Transaction](t, rec)
	assert.True(t, tx.Total.Equal(decimal.NewFromInt(10000)))

	rec = a.do(t, http.MethodGet, "/api/summary", "budi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[models.SalesSummary](t, rec)
	assert.True(t, summary.QR.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 1, summary.Count)

	rec = a.do(t, http.MethodPut, "/api/transactions/nope", "budi", `{"productId":"p1","quantity":1,"payments":[{"method":"Tunai","amount":1}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodDelete, "/api/transactions?from=2026-10-01&to=2026-10-17", "budi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int64{"deleted": 1}, decodeBody[map[string]int64](t, rec))
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, wib), a.sales.lastList.From)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, wib), a.sales.lastList.To)

	a.sales.err = errBoom
	rec = a.do(t, http.MethodGet, "/api/transactions", "budi", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgInternal, decodeBody[errorResponse](t, rec).Error)
}

func TestDateRange(t *testing.T) {
	a := newTestAPI(t)

	rng, err := a.handler.dateRange(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, wib), rng.From)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, wib), rng.To)

	_, err = a.handler.dateRange(httptest.NewRequest(http.MethodGet, "/?from=17-10-2026", nil))
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msgDate, verr.Fields["from"])

	_, err = a.handler.dateRange(httptest.NewRequest(http.MethodGet, "/?from=2026-10-20&to=2026-10-19", nil))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msgDateRange, verr.Fields["to"])
}

func TestDownloadReport(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(t, http.MethodPost, "/api/transactions/quick", "budi",
		`{"productName":"Es Teh","quantity":2,"price":5000}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/reports/txt?inline=1", "budi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="laporan_penjualan_2026-10-18.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "1. Es Teh = 2x5k=10k")
	assert.Contains(t, rec.Body.String(), "Tanggal Cetak: 2026-10-18 03:00:00")

	rec = a.do(t, http.MethodGet, "/api/reports/xlsx", "budi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="Laporan_Penjualan_budi_20261018.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = a.do(t, http.MethodGet, "/api/reports/docx", "budi", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgReportFormat, decodeBody[errorResponse](t, rec).Fields["format"])
}

func TestChatRoutes(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/chats/sari/messages", "budi", models.MessageInput{Text: "halo"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "budi_sari", decodeBody[models.ChatMessage](t, rec).ChatID)

	rec = a.do(t, http.MethodPost, "/api/chats/ghost/messages", "budi", models.MessageInput{Text: "halo"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/chats/sari/messages", "budi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.ChatMessage](t, rec), 1)

	rec = a.do(t, http.MethodGet, "/api/chats", "budi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	a.do(t, http.MethodGet, "/api/profile", "sari", nil)
	rec = a.do(t, http.MethodGet, "/api/chat/users", "budi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	contacts := decodeBody[[]models.User](t, rec)
	require.Len(t, contacts, 1)
	assert.Equal(t, "sari", contacts[0].ID)
}

func TestAdminRoutes(t *testing.T) {
	a := newTestAPI(t)
	a.do(t, http.MethodGet, "/api/profile", "kasir", nil)

	rec := a.do(t, http.MethodGet, "/api/admin/users", "kasir", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, msgForbidden, decodeBody[errorResponse](t, rec).Error)

	a.do(t, http.MethodGet, "/api/profile", "admin", nil)
	a.accounts.users["admin"].Role = models.RoleSuperadmin

	rec = a.do(t, http.MethodPatch, "/api/admin/users/admin/role", "admin", models.RoleInput{Role: models.RoleUser})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Anda tidak dapat mengubah role akun Anda sendiri.", decodeBody[errorResponse](t, rec).Error)

	rec = a.do(t, http.MethodPatch, "/api/admin/users/kasir/role", "admin", models.RoleInput{Role: models.RoleSuperadmin})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleSuperadmin, decodeBody[models.User](t, rec).Role)

	rec = a.do(t, http.MethodDelete, "/api/admin/users/kasir", "admin", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/admin/users", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.User](t, rec), 1)
}

func TestPhotoRoutes(t *testing.T) {
	a := newTestAPI(t)

	req := func(body, contentType string) *httptest.ResponseRecorder {
		token, err := auth.IssueToken(testSecret, "budi", "budi@kassa.id", time.Hour)
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodPut, "/api/profile/photo", strings.NewReader(body))
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, r)
		return rec
	}

	rec := req(strings.Repeat("x", 33), "image/png")
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, models.MsgPhotoSize, decodeBody[errorResponse](t, rec).Error)

	rec = req("GIF89a", "image/gif")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = req("png-bytes", "image/png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/api/users/budi/photo", decodeBody[models.User](t, rec).PhotoURL)

	rec = a.do(t, http.MethodGet, "/api/users/budi/photo", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "png-bytes", rec.Body.String())

	rec = a.do(t, http.MethodGet, "/api/users/sari/photo", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	a := newTestAPI(t)
	a.handler.Limiter = stubLimiter{limited: true}
	router := a.handler.Router(auth.NewMiddleware(testSecret))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHealthz(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	a.handler.Deps.Health["redis"] = stubPinger{err: errBoom}
	rec = a.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, false, body["healthy"])
}

func TestCORSPreflight(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
