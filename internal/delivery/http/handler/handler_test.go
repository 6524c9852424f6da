package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dine-reserve/internal/config"
	domainReservation "dine-reserve/internal/domain/reservation"
	"dine-reserve/internal/infrastructure/database/memory"
	"dine-reserve/internal/middleware"
	"dine-reserve/internal/usecase/reservation"
	"dine-reserve/internal/usecase/user"
	appErrors "dine-reserve/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminSecret = "s3cret"

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Storage: config.StorageConfig{RepositoryTimeout: time.Second},
		Admin:   config.AdminConfig{Secret: adminSecret, Email: "admin@dine.com", Password: "pw"},
		JWT:     config.JWTConfig{Secret: "jwt-secret", ExpiryHours: 1},
	}

	users := memory.NewUserRepository()
	userService := user.NewService(users, cfg)
	reservationService := reservation.NewService(
		memory.NewReservationRepository(),
		userService,
		users,
		nil,
		nil,
		reservation.Config{
			Capacity: domainReservation.Capacity{TotalSeats: 10, TotalTables: 5},
			Timeout:  time.Second,
		},
	)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	admin := []gin.HandlerFunc{middleware.AdminAuthMiddleware(cfg), middleware.AdminOnly()}

	health := NewHealthHandler(func(context.Context) error { return nil })
	router.GET("/health", health.Health)

	api := router.Group("/api")
	NewReservationHandler(reservationService).RegisterRoutes(api, admin...)
	NewUserHandler(userService).RegisterRoutes(api, admin...)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}, asAdmin bool) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if asAdmin {
		req.Header.Set(middleware.AdminSecretHeader, adminSecret)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func booking(seats interface{}) map[string]interface{} {
	return map[string]interface{}{
		"name":  "Ana",
		"email": "ana@example.com",
		"phone": "0912345678",
		"date":  "2030-05-01",
		"time":  "7:00 PM",
		"seats": seats,
	}
}

func createReservation(t *testing.T, router *gin.Engine, seats interface{}) reservation.ReservationResponse {
	t.Helper()
	code, env := do(t, router, http.MethodPost, "/api/reservation/register", booking(seats), false)
	require.Equal(t, http.StatusCreated, code, env.Error)

	var res reservation.ReservationResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res
}

func TestCreateReservation(t *testing.T) {
	router := newTestRouter(t)

	res := createReservation(t, router, "4")

	assert.Equal(t, "Pending", res.Status)
	assert.Equal(t, 4, res.Seats)
	assert.Equal(t, "2030-05-01T00:00:00.000Z", res.Date)
}

func TestCreateReservation_ValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		errMsg string
	}{
		{"bad date", func(b map[string]interface{}) { b["date"] = "May 1st" }, "Invalid date format. Use YYYY-MM-DD or DD-MM-YYYY"},
		{"bad seats", func(b map[string]interface{}) { b["seats"] = 11 }, "Invalid seats. Must be integer between 1 and 10"},
		{"missing name", func(b map[string]interface{}) { delete(b, "name") }, "Missing required fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := booking(2)
			tt.mutate(body)

			code, env := do(t, router, http.MethodPost, "/api/reservation/register", body, false)

			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.errMsg, env.Error)
		})
	}

	code, env := do(t, router, http.MethodPost, "/api/reservation/register", booking(2), false)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
}

func TestCreateReservation_InvalidTimeListsSlots(t *testing.T) {
	router := newTestRouter(t)
	body := booking(2)
	body["time"] = "11:30 PM"

	code, env := do(t, router, http.MethodPost, "/api/reservation/register", body, false)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Len(t, env.Details["allowed"], len(domainReservation.TimeSlots))
}

func TestConfirm_CapacityExceeded(t *testing.T) {
	router := newTestRouter(t)

	first := createReservation(t, router, 10)
	second := createReservation(t, router, 1)

	code, _ := do(t, router, http.MethodPost, "/api/reservation/"+first.ID.String()+"/confirm", nil, true)
	require.Equal(t, http.StatusOK, code)

	code, env := do(t, router, http.MethodPost, "/api/reservation/"+second.ID.String()+"/confirm", nil, true)

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, float64(0), env.Details["available"])
	assert.Equal(t, float64(1), env.Details["requested"])
}

func TestConfirm_InvalidTransition(t *testing.T) {
	router := newTestRouter(t)
	res := createReservation(t, router, 2)
	path := "/api/reservation/" + res.ID.String()

	code, _ := do(t, router, http.MethodPost, path+"/cancel", nil, true)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, router, http.MethodPost, path+"/confirm", nil, true)
	assert.Equal(t, http.StatusConflict, code)
}

func TestAdminRoutes_RequireCredentials(t *testing.T) {
	router := newTestRouter(t)
	res := createReservation(t, router, 2)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/reservation"},
		{http.MethodGet, "/api/reservation/stats"},
		{http.MethodPost, "/api/reservation/" + res.ID.String() + "/confirm"},
		{http.MethodDelete, "/api/reservation/" + res.ID.String()},
		{http.MethodGet, "/api/user"},
	} {
		code, _ := do(t, router, route.method, route.path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, code, route.path)
	}
}

func TestGetReservation_NotFound(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodGet, "/api/reservation/00000000-0000-0000-0000-000000000001", nil, true)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Reservation not found", env.Error)

	code, _ = do(t, router, http.MethodGet, "/api/reservation/not-a-uuid", nil, true)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListForUser_AndOccupancy(t *testing.T) {
	router := newTestRouter(t)
	res := createReservation(t, router, 3)
	createReservation(t, router, 2)

	code, _ := do(t, router, http.MethodPost, "/api/reservation/"+res.ID.String()+"/confirm", nil, true)
	require.Equal(t, http.StatusOK, code)

	code, env := do(t, router, http.MethodGet, "/api/reservation/user/ana@example.com", nil, false)
	require.Equal(t, http.StatusOK, code)
	var list []reservation.ReservationResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)

	code, env = do(t, router, http.MethodGet, "/api/reservation/occupancy", nil, false)
	require.Equal(t, http.StatusOK, code)
	var occ reservation.OccupancyResponse
	require.NoError(t, json.Unmarshal(env.Data, &occ))
	assert.Equal(t, 3, occ.OccupiedSeats)
	assert.Equal(t, 7, occ.VacantSeats)
	assert.Equal(t, 1, occ.ConfirmedTables)
	assert.Equal(t, 1, occ.PendingCount)
}

func TestEditAndDelete(t *testing.T) {
	router := newTestRouter(t)
	res := createReservation(t, router, 2)
	path := "/api/reservation/" + res.ID.String()

	code, env := do(t, router, http.MethodPut, path, map[string]interface{}{"seats": "5", "name": ""}, true)
	require.Equal(t, http.StatusOK, code, env.Error)
	var edited reservation.ReservationResponse
	require.NoError(t, json.Unmarshal(env.Data, &edited))
	assert.Equal(t, 5, edited.Seats)
	assert.Equal(t, "Ana", edited.Name)

	code, _ = do(t, router, http.MethodDelete, path, nil, true)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, router, http.MethodDelete, path, nil, true)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUserFlow_BlockedUserCannotBook(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodPost, "/api/user/register", map[string]interface{}{
		"name":     "Ana",
		"email":    "ana@example.com",
		"phone":    "+84912345678",
		"password": "hunter22",
	}, false)
	require.Equal(t, http.StatusCreated, code, env.Error)
	var registered user.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &registered))

	code, env = do(t, router, http.MethodPost, "/api/user/register", map[string]interface{}{
		"name":     "Ana Again",
		"email":    "ana@example.com",
		"phone":    "+84912345678",
		"password": "hunter22",
	}, false)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.ElementsMatch(t, []interface{}{"email", "phone"}, env.Details["fields"])

	code, _ = do(t, router, http.MethodPost, "/api/user/"+registered.ID.String()+"/block", nil, true)
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, router, http.MethodPost, "/api/reservation/register", booking(2), false)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You are blocked", env.Error)

	code, _ = do(t, router, http.MethodPost, "/api/user/login", map[string]interface{}{
		"email":    "ana@example.com",
		"password": "hunter22",
	}, false)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAdminLogin_TokenGrantsAccess(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodPost, "/api/admin/login", map[string]interface{}{
		"email":    "admin@dine.com",
		"password": "pw",
	}, false)
	require.Equal(t, http.StatusOK, code, env.Error)
	var token user.AdminTokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))

	req := httptest.NewRequest(http.MethodGet, "/api/reservation/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	code, _ = do(t, router, http.MethodPost, "/api/admin/login", map[string]interface{}{
		"email":    "admin@dine.com",
		"password": "wrong",
	}, false)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/up", NewHealthHandler(func(context.Context) error { return nil }).Health)
	router.GET("/down", NewHealthHandler(func(context.Context) error { return errors.New("refused") }).Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/up", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusForCode(appErrors.CodeInvalidSeats))
	assert.Equal(t, http.StatusForbidden, StatusForCode(appErrors.CodeUserBlocked))
	assert.Equal(t, http.StatusConflict, StatusForCode(appErrors.CodeCapacityExceeded))
	assert.Equal(t, http.StatusInternalServerError, StatusForCode(appErrors.CodeRepositoryUnavailable))
	assert.Equal(t, http.StatusInternalServerError, StatusForCode("SOMETHING_ELSE"))
}
