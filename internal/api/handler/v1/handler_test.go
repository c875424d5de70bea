package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campsite-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/campsite-api/internal/api/middleware"
	"github.com/vietanh2810/campsite-api/internal/domain"
	"github.com/vietanh2810/campsite-api/internal/pkg/jwthelper"
)

const testKey = "handler-test-key"

// fakeReserves records the last call and returns canned results.
type fakeReserves struct {
	ReserveService

	requester domain.Requester
	request   domain.ReserveRequest
	confirm   []any
	reserve   domain.Reserve
	err       error
}

func (f *fakeReserves) CreateReserve(_ context.Context, requester domain.Requester, req domain.ReserveRequest) (domain.Reserve, error) {
	f.requester, f.request = requester, req
	return f.reserve, f.err
}

func (f *fakeReserves) GetReserve(_ context.Context, id uint) (domain.Reserve, error) {
	if f.err != nil {
		return domain.Reserve{}, f.err
	}
	r := f.reserve
	r.ID = id
	return r, nil
}

func (f *fakeReserves) ConfirmEntity(_ context.Context, entityType domain.EntityType, reserveID, entityID uint) (domain.Reserve, error) {
	f.confirm = []any{entityType, reserveID, entityID}
	return f.reserve, f.err
}

func (f *fakeReserves) ListReserves(_ context.Context, filter domain.ReserveFilter) ([]domain.Reserve, int64, error) {
	return []domain.Reserve{f.reserve}, 41, f.err
}

type fakeAvailability struct {
	from, to time.Time
	year     int
	month    time.Month
}

func (f *fakeAvailability) FindAvailableTents(_ context.Context, from, to time.Time) ([]domain.Tent, error) {
	f.from, f.to = from, to
	return []domain.Tent{{ID: 2, Name: "Yurt"}}, nil
}

func (f *fakeAvailability) FindTentsForAdmin(_ context.Context, from, to time.Time) ([]domain.TentAvailability, error) {
	return nil, nil
}

func (f *fakeAvailability) Calendar(_ context.Context, year int, month time.Month) ([]domain.CalendarDay, error) {
	f.year, f.month = year, month
	return []domain.CalendarDay{{Date: "2024-07-01", Available: true}}, nil
}

type fakeStatistics struct {
	step domain.StatisticsStep
	mode domain.StatisticsMode
}

func (f *fakeStatistics) Series(_ context.Context, step domain.StatisticsStep, mode domain.StatisticsMode) ([]domain.StatisticsPoint, error) {
	f.step, f.mode = step, mode
	return []domain.StatisticsPoint{}, nil
}

func newTestRouter(reserves *fakeReserves, availability *fakeAvailability, stats *fakeStatistics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := middleware.NewAuthenticator(testKey)

	rh := NewReserveHandler(reserves)
	ah := NewAvailabilityHandler(availability)
	sh := NewStatisticsHandler(stats)

	r.GET("/tents/available", ah.HandleAvailableTents)
	r.GET("/calendar", ah.HandleCalendar)
	r.POST("/reserves", auth.OptionalJWT(), rh.HandleCreateReserve)

	admin := r.Group("/admin", auth.VerifyJWT(), middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/reserves", rh.HandleListReserves)
	admin.GET("/reserves/:reserveID", rh.HandleGetReserve)
	admin.POST("/reserves/:reserveID/confirm", rh.HandleConfirm)
	admin.GET("/statistics", sh.HandleStatistics)

	return r
}

func bearer(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, err := jwthelper.GenerateToken([]byte(testKey), userID, role, "test")
	require.NoError(t, err)
	return "Bearer " + token
}

func do(r *gin.Engine, method, path, body, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) response.Err {
	t.Helper()
	var e response.Err
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

const tentBody = `{"tents":[{"tent_id":1,"date_from":"2024-07-01","date_to":"2024-07-03"}],"name":"Guest","email":"guest@example.com"}`

func TestHandleCreateReserve(t *testing.T) {
	t.Run("guest", func(t *testing.T) {
		fake := &fakeReserves{reserve: domain.Reserve{ID: 1, ExternalID: "RSV000001", NetImport: decimal.NewFromInt(300)}}
		r := newTestRouter(fake, &fakeAvailability{}, &fakeStatistics{})

		rec := do(r, http.MethodPost, "/reserves", tentBody, "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"external_id":"RSV000001"`)

		assert.True(t, fake.requester.IsGuest())
		require.Len(t, fake.request.Tents, 1)
		assert.Equal(t, time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC), fake.request.Tents[0].DateTo)
		assert.Equal(t, "guest@example.com", fake.request.Email)
	})

	t.Run("authenticated", func(t *testing.T) {
		fake := &fakeReserves{}
		r := newTestRouter(fake, &fakeAvailability{}, &fakeStatistics{})

		rec := do(r, http.MethodPost, "/reserves", tentBody, bearer(t, 7, domain.RoleClient))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, fake.requester.UserID)
		assert.Equal(t, uint(7), *fake.requester.UserID)
		assert.Equal(t, domain.RoleClient, fake.requester.Role)
	})

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantRefs   []string
	}{
		{name: "malformed json", body: `{"tents":`, wantStatus: http.StatusBadRequest},
		{name: "empty", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "reversed dates", body: `{"tents":[{"tent_id":1,"date_from":"2024-07-03","date_to":"2024-07-01"}]}`, wantStatus: http.StatusBadRequest},
		{
			name:       "tent taken",
			body:       tentBody,
			err:        domain.Conflict(domain.EntityTent, "not available for the requested dates", []uint{1}),
			wantStatus: http.StatusConflict,
			wantRefs:   []string{"1"},
		},
		{name: "unknown tent", body: tentBody, err: domain.NotFound(domain.EntityTent, []uint{9}), wantStatus: http.StatusNotFound, wantRefs: []string{"9"}},
		{name: "expired code", body: tentBody, err: domain.BadRequest(domain.EntityDiscountCode, domain.MsgExpired, "OLD"), wantStatus: http.StatusBadRequest},
		{name: "database down", body: tentBody, err: errors.New("dial tcp: refused"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeReserves{err: tt.err}, &fakeAvailability{}, &fakeStatistics{})

			rec := do(r, http.MethodPost, "/reserves", tt.body, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			e := decodeErr(t, rec)
			assert.Equal(t, tt.wantRefs, e.Refs)
			assert.NotContains(t, e.Message, "dial tcp")
		})
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r := newTestRouter(&fakeReserves{}, &fakeAvailability{}, &fakeStatistics{})

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin/reserves/1", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin/reserves/1", "", bearer(t, 7, domain.RoleClient)).Code)

	rec := do(r, http.MethodGet, "/admin/reserves/5", "", bearer(t, 1, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":5`)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/admin/reserves/abc", "", bearer(t, 1, domain.RoleAdmin)).Code)
}

func TestHandleListReserves(t *testing.T) {
	r := newTestRouter(&fakeReserves{reserve: domain.Reserve{ID: 3}}, &fakeAvailability{}, &fakeStatistics{})
	admin := bearer(t, 1, domain.RoleAdmin)

	rec := do(r, http.MethodGet, "/admin/reserves?status=CONFIRMED&page=2", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var page response.Page[domain.Reserve]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(41), page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/admin/reserves?status=LOST", "", admin).Code)
}

func TestHandleConfirm(t *testing.T) {
	fake := &fakeReserves{reserve: domain.Reserve{ID: 4, Status: domain.ReserveConfirmed}}
	r := newTestRouter(fake, &fakeAvailability{}, &fakeStatistics{})
	admin := bearer(t, 1, domain.RoleAdmin)

	rec := do(r, http.MethodPost, "/admin/reserves/4/confirm", `{"entity_type":"TENT","entity_id":12}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []any{domain.EntityTypeTent, uint(4), uint(12)}, fake.confirm)

	rec = do(r, http.MethodPost, "/admin/reserves/4/confirm", `{"entity_type":"TENT"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityHandlers(t *testing.T) {
	fake := &fakeAvailability{}
	r := newTestRouter(&fakeReserves{}, fake, &fakeStatistics{})

	rec := do(r, http.MethodGet, "/tents/available?date_from=2024-07-01&date_to=2024-07-05", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":2,"name":"Yurt"}]`, pick(t, rec.Body.Bytes(), "id", "name"))
	assert.Equal(t, time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC), fake.to)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/tents/available?date_from=2024-07-01", "", "").Code)

	rec = do(r, http.MethodGet, "/calendar?year=2024&month=7", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, fake.year)
	assert.Equal(t, time.July, fake.month)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/calendar?year=2024&month=13", "", "").Code)
}

func TestHandleStatistics(t *testing.T) {
	fake := &fakeStatistics{}
	r := newTestRouter(&fakeReserves{}, &fakeAvailability{}, fake)
	admin := bearer(t, 1, domain.RoleAdmin)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin/statistics?step=MONTH", "", admin).Code)
	assert.Equal(t, domain.StepMonth, fake.step)
	assert.Equal(t, domain.ModePeriodic, fake.mode)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin/statistics?step=YEAR&mode=ACCUMULATED", "", admin).Code)
	assert.Equal(t, domain.ModeAccumulated, fake.mode)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/admin/statistics?step=DAY", "", admin).Code)
}

// pick keeps only the named keys of each object in a JSON array.
func pick(t *testing.T, raw []byte, keys ...string) string {
	t.Helper()
	var items []map[string]any
	require.NoError(t, json.Unmarshal(raw, &items))
	for i, item := range items {
		kept := map[string]any{}
		for _, k := range keys {
			kept[k] = item[k]
		}
		items[i] = kept
	}
	out, err := json.Marshal(items)
	require.NoError(t, err)
	return string(out)
}
