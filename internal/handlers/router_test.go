package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourplatform/tour-booking-backend/internal/config"
	"github.com/tourplatform/tour-booking-backend/internal/database"
	"github.com/tourplatform/tour-booking-backend/internal/services"
	"github.com/tourplatform/tour-booking-backend/pkg/jwt"
	"github.com/tourplatform/tour-booking-backend/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

var (
	userColumns        = []string{"id", "name", "email", "phone", "password_hash", "created_at"}
	packageColumns     = []string{"id", "title", "description", "price", "start_time", "number_of_people", "bus_details", "created_by", "created_at"}
	bookingColumns     = []string{"id", "user_id", "package_id", "booking_date", "tour_date", "starting_point", "status"}
	userBookingColumns = []string{"id", "package_id", "status", "starting_point", "booking_date", "tour_date", "package_title", "price", "start_time"}
)

const (
	lockBookingQuery = `SELECT (.+) FROM bookings WHERE id = \$1 FOR UPDATE`
	updateStatus     = `UPDATE bookings SET status = \$1 WHERE id = \$2`
	listUserBookings = `FROM bookings b JOIN tour_packages tp ON b.package_id = tp.id WHERE b.user_id = \$1`
)

var sweepUserBookings = regexp.QuoteMeta(`UPDATE bookings SET status = $1 WHERE user_id = $2 AND status = $3 AND tour_date < $4`)

type testApp struct {
	router     *gin.Engine
	mock       sqlmock.Sqlmock
	jwtService *jwt.Service
}

func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func setupTestApp(t *testing.T) *testApp {
	gin.SetMode(gin.TestMode)

	db, mock := setupTestDB(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwtService := jwt.NewService("test-secret", "tour-booking-test", time.Hour)

	userRepo := database.NewUserRepository(db)
	packageRepo := database.NewPackageRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	paymentRepo := database.NewPaymentRepository(db)

	authService, err := services.NewAuthService(userRepo, database.NewAdminRepository(db), jwtService,
		validator.NewPhoneValidator(), bcrypt.MinCost, logger)
	require.NoError(t, err)
	catalogService := services.NewCatalogService(packageRepo, database.NewItineraryRepository(db), false, logger)
	bookingService := services.NewBookingService(db, bookingRepo, paymentRepo, packageRepo, logger)
	reportService := services.NewReportService(database.NewStatsRepository(db), userRepo, bookingRepo, paymentRepo, logger)
	cronService := services.NewCronService(bookingService, "0 0 0 * * *", logger)

	router := NewRouter(RouterConfig{
		DB:         db,
		JWTService: jwtService,
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		Version: "test",
		Logger:  logger,
		Auth:    NewAuthHandler(authService, logger),
		Catalog: NewCatalogHandler(catalogService, logger),
		Booking: NewBookingHandler(bookingService, logger),
		Admin:   NewAdminHandler(reportService, cronService, logger),
	})

	return &testApp{router: router, mock: mock, jwtService: jwtService}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) token(t *testing.T, id uuid.UUID, role jwt.Role) string {
	token, err := a.jwtService.GenerateAccessToken(id, "someone@example.com", role)
	require.NoError(t, err)
	return token
}

// book drives POST /api/user/bookings and returns the new booking id
func (a *testApp) book(t *testing.T, token string, userID, packageID uuid.UUID, tourDate string) uuid.UUID {
	a.mock.ExpectQuery(`FROM tour_packages WHERE id = \$1`).
		WithArgs(packageID.String()).
		WillReturnRows(sqlmock.NewRows(packageColumns).
			AddRow(packageID.String(), "Yala Safari", nil, 300.0, time.Now(), 12, nil, nil, time.Now()))
	a.mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(sqlmock.AnyArg(), userID.String(), packageID.String(), sqlmock.AnyArg(), sqlmock.AnyArg(), "Colombo", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := a.do(t, http.MethodPost, "/api/user/bookings", token, gin.H{
		"package_id":     packageID.String(),
		"starting_point": "Colombo",
		"tour_date":      tourDate,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		BookingID uuid.UUID `json:"bookingId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.BookingID
}

func (a *testApp) expectLock(bookingID, owner uuid.UUID, status string) {
	a.mock.ExpectQuery(lockBookingQuery).
		WithArgs(bookingID.String()).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(bookingID.String(), owner.String(), uuid.New().String(), time.Now(), time.Now().AddDate(0, 1, 0), "Colombo", status))
}

func (a *testApp) expectListing(userID, bookingID uuid.UUID, completed int64, status string) {
	a.mock.ExpectExec(sweepUserBookings).
		WithArgs("completed", userID.String(), "booked", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, completed))
	a.mock.ExpectQuery(listUserBookings).
		WithArgs(userID.String()).
		WillReturnRows(sqlmock.NewRows(userBookingColumns).
			AddRow(bookingID.String(), uuid.New().String(), status, "Colombo", time.Now(), time.Now(), "Yala Safari", 300.0, time.Now()))
}

func listedStatuses(t *testing.T, w *httptest.ResponseRecorder) []string {
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var bookings []struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))

	statuses := make([]string, 0, len(bookings))
	for _, b := range bookings {
		statuses = append(statuses, b.Status)
	}
	return statuses
}

func TestScenario_RegisterLoginBookPay(t *testing.T) {
	app := setupTestApp(t)
	packageID := uuid.New()

	app.mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "Nimal", "nimal@example.com", "0771234567", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := app.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Nimal",
		"email":    "nimal@example.com",
		"phone":    "077 123 4567",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	app.mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("nimal@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userID.String(), "Nimal", "nimal@example.com", "0771234567", string(hash), time.Now()))

	w = app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nimal@example.com",
		"password": "secret1",
		"role":     "user",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, "user", login.Role)

	bookingID := app.book(t, login.Token, userID, packageID, "2026-12-20")

	app.mock.ExpectBegin()
	app.expectLock(bookingID, userID, "pending")
	app.mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(sqlmock.AnyArg(), bookingID.String(), 300.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	app.mock.ExpectExec(updateStatus).
		WithArgs("booked", bookingID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	app.mock.ExpectCommit()

	w = app.do(t, http.MethodPost, "/api/user/payments", login.Token, gin.H{
		"booking_id": bookingID.String(),
		"amount":     300,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "paymentId")

	app.expectListing(userID, bookingID, 0, "booked")
	w = app.do(t, http.MethodGet, "/api/user/bookings", login.Token, nil)
	assert.Equal(t, []string{"booked"}, listedStatuses(t, w))

	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestScenario_CancelBeforePayment(t *testing.T) {
	app := setupTestApp(t)
	userID := uuid.New()
	token := app.token(t, userID, jwt.RoleUser)

	bookingID := app.book(t, token, userID, uuid.New(), "2026-12-20T09:00")

	app.mock.ExpectBegin()
	app.expectLock(bookingID, userID, "pending")
	app.mock.ExpectExec(updateStatus).
		WithArgs("canceled", bookingID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	app.mock.ExpectCommit()

	w := app.do(t, http.MethodPut, "/api/user/bookings/"+bookingID.String()+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	app.expectListing(userID, bookingID, 0, "canceled")
	w = app.do(t, http.MethodGet, "/api/user/bookings", token, nil)
	assert.Equal(t, []string{"canceled"}, listedStatuses(t, w))

	// Paying a canceled booking is refused without any write.
	app.mock.ExpectBegin()
	app.expectLock(bookingID, userID, "canceled")
	app.mock.ExpectRollback()

	w = app.do(t, http.MethodPost, "/api/user/payments", token, gin.H{
		"booking_id": bookingID.String(),
		"amount":     300,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot pay for this booking")

	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestScenario_PastTourDateSweep(t *testing.T) {
	t.Run("BookedBecomesCompleted", func(t *testing.T) {
		app := setupTestApp(t)
		userID := uuid.New()
		token := app.token(t, userID, jwt.RoleUser)

		bookingID := app.book(t, token, userID, uuid.New(), "2020-01-01")

		app.expectListing(userID, bookingID, 1, "completed")
		w := app.do(t, http.MethodGet, "/api/user/bookings", token, nil)
		assert.Equal(t, []string{"completed"}, listedStatuses(t, w))
		assert.NoError(t, app.mock.ExpectationsWereMet())
	})

	t.Run("PendingStaysPending", func(t *testing.T) {
		app := setupTestApp(t)
		userID := uuid.New()
		token := app.token(t, userID, jwt.RoleUser)

		bookingID := app.book(t, token, userID, uuid.New(), "2020-01-01")

		// The sweep only matches booked rows, so nothing changes.
		app.expectListing(userID, bookingID, 0, "pending")
		w := app.do(t, http.MethodGet, "/api/user/bookings", token, nil)
		assert.Equal(t, []string{"pending"}, listedStatuses(t, w))
		assert.NoError(t, app.mock.ExpectationsWereMet())
	})
}

func TestLogin_AdminRoleWithUserEmail(t *testing.T) {
	app := setupTestApp(t)

	app.mock.ExpectQuery(`SELECT (.+) FROM admins WHERE email = \$1`).
		WithArgs("nimal@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}))

	w := app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nimal@example.com",
		"password": "secret1",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid credentials.", resp.Message)
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := setupTestApp(t)

	app.mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	w := app.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Nimal",
		"email":    "nimal@example.com",
		"phone":    "0771234567",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered.")
}

func TestRegister_InternalErrorIsGeneric(t *testing.T) {
	app := setupTestApp(t)

	app.mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))

	w := app.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Nimal",
		"email":    "nimal@example.com",
		"phone":    "0771234567",
		"password": "secret1",
	})

	// Unclassified driver errors get a generic body without the raw text.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "users_email_key")
}

func TestRegister_PasswordOverBcryptLimit(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Nimal",
		"email":    "nimal@example.com",
		"phone":    "0771234567",
		"password": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestPayment_AmountOutOfRange(t *testing.T) {
	userID := uuid.New()
	bookingID := uuid.New()

	t.Run("RoundsToZeroCents", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.do(t, http.MethodPost, "/api/user/payments", app.token(t, userID, jwt.RoleUser), gin.H{
			"booking_id": bookingID.String(),
			"amount":     0.001,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "validation_error")
		assert.NoError(t, app.mock.ExpectationsWereMet())
	})

	t.Run("CheckConstraint", func(t *testing.T) {
		app := setupTestApp(t)

		app.mock.ExpectBegin()
		app.expectLock(bookingID, userID, "pending")
		app.mock.ExpectExec(`INSERT INTO payments`).
			WillReturnError(&pq.Error{Code: "23514", Constraint: "payments_amount_check"})
		app.mock.ExpectRollback()

		w := app.do(t, http.MethodPost, "/api/user/payments", app.token(t, userID, jwt.RoleUser), gin.H{
			"booking_id": bookingID.String(),
			"amount":     250,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotContains(t, w.Body.String(), "internal_error")
		assert.NoError(t, app.mock.ExpectationsWereMet())
	})
}

func TestRoutes_Authorization(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/user/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/api/admin/stats", app.token(t, uuid.New(), jwt.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPost, "/api/user/payments", app.token(t, uuid.New(), jwt.RoleAdmin), gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodGet, "/api/itinerary/"+uuid.New().String(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_StatsAndCron(t *testing.T) {
	app := setupTestApp(t)
	token := app.token(t, uuid.New(), jwt.RoleAdmin)

	app.mock.ExpectQuery(`SELECT (.+) FROM tour_packages(.+) FROM payments`).
		WillReturnRows(sqlmock.NewRows([]string{"packages", "users", "bookings", "payments"}).AddRow(2, 5, 4, 1))

	w := app.do(t, http.MethodGet, "/api/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"packages":2,"users":5,"bookings":4,"payments":1}`, w.Body.String())

	app.mock.ExpectQuery(regexp.QuoteMeta(`SELECT complete_past_bookings()`)).
		WillReturnRows(sqlmock.NewRows([]string{"complete_past_bookings"}).AddRow(3))

	w = app.do(t, http.MethodPost, "/api/admin/cron/complete-bookings", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"completed":3`)

	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestAdmin_DeleteUserInvalidID(t *testing.T) {
	app := setupTestApp(t)
	token := app.token(t, uuid.New(), jwt.RoleAdmin)

	w := app.do(t, http.MethodDelete, "/api/admin/users/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalog_PublicListing(t *testing.T) {
	app := setupTestApp(t)

	app.mock.ExpectQuery(`FROM tour_packages WHERE start_time <= \$1`).
		WillReturnRows(sqlmock.NewRows(packageColumns).
			AddRow(uuid.New().String(), "Mirissa Whales", "Boat tour", 90.0, time.Now(), 30, "AC coach", nil, time.Now()))

	w := app.do(t, http.MethodGet, "/api/packages", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"description":"Boat tour"`)
	assert.Contains(t, w.Body.String(), `"bus_details":"AC coach"`)
}

func TestHealthCheck(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRoutes_AllDocumented(t *testing.T) {
	app := setupTestApp(t)

	sources, err := filepath.Glob("*_handler.go")
	require.NoError(t, err)

	documented := make(map[string]bool)
	for _, path := range sources {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		for _, line := range strings.Split(string(content), "\n") {
			if route, ok := strings.CutPrefix(strings.TrimSpace(line), "// @Router "); ok {
				documented[route] = true
			}
		}
	}

	pathParam := regexp.MustCompile(`:(\w+)`)
	for _, route := range app.router.Routes() {
		if !strings.HasPrefix(route.Path, "/api/") {
			continue
		}
		path := pathParam.ReplaceAllString(strings.TrimPrefix(route.Path, "/api"), "{$1}")
		want := fmt.Sprintf("%s [%s]", path, strings.ToLower(route.Method))
		assert.True(t, documented[want], "missing @Router %s", want)
	}
}
