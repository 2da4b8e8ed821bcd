package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-catalog/app/controller"
	"github.com/vibast-solutions/ms-go-catalog/app/middleware"
	"github.com/vibast-solutions/ms-go-catalog/app/repository"
	"github.com/vibast-solutions/ms-go-catalog/app/service"
	"github.com/vibast-solutions/ms-go-catalog/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	findUserByUsernameQuery       = `(?s)SELECT id, username, email, password_hash, activated, created_at, updated_at\s+FROM users WHERE username = \?`
	findUserByEmailQuery          = `(?s)SELECT id, username, email, password_hash, activated, created_at, updated_at\s+FROM users WHERE email = \?`
	findUserByIDQuery             = `(?s)SELECT id, username, email, password_hash, activated, created_at, updated_at\s+FROM users WHERE id = \?`
	insertUserQuery               = `(?s)INSERT INTO users \(username, email, password_hash, activated, created_at, updated_at\)\s+VALUES \(\?, \?, \?, \?, \?, \?\)`
	updateUserQuery               = `(?s)UPDATE users SET\s+username = \?,\s+email = \?,\s+password_hash = \?,\s+activated = \?,\s+updated_at = \?\s+WHERE id = \?`
	insertConfirmationQuery       = `(?s)INSERT INTO confirmations \(id, user_id, expire_at, confirmed, created_at\)\s+VALUES \(\?, \?, \?, \?, \?\)`
	findConfirmationByIDQuery     = `(?s)SELECT id, user_id, expire_at, confirmed, created_at\s+FROM confirmations WHERE id = \?`
	findMostRecentConfirmationQry = `(?s)SELECT id, user_id, expire_at, confirmed, created_at\s+FROM confirmations WHERE user_id = \? ORDER BY expire_at DESC LIMIT 1`
	updateConfirmationQuery       = `(?s)UPDATE confirmations SET\s+expire_at = \?,\s+confirmed = \?\s+WHERE id = \?`

	findStoreByNameQuery  = `(?s)SELECT id, name FROM stores WHERE name = \?`
	findItemByNameQuery   = `(?s)SELECT id, name, price, store_id FROM items WHERE name = \?`
	findItemsByStoreQuery = `(?s)SELECT id, name, price, store_id FROM items WHERE store_id = \? ORDER BY name`
	insertItemQuery       = `(?s)INSERT INTO items \(name, price, store_id\) VALUES \(\?, \?, \?\)`
	deleteItemQuery       = `(?s)DELETE FROM items WHERE id = \?`
)

var userColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"activated",
	"created_at",
	"updated_at",
}

var confirmationColumns = []string{
	"id",
	"user_id",
	"expire_at",
	"confirmed",
	"created_at",
}

var storeColumns = []string{"id", "name"}

var itemColumns = []string{"id", "name", "price", "store_id"}

type stubMailer struct {
	err  error
	sent int
}

func (m *stubMailer) Send(_ context.Context, _ []string, _, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent++
	return nil
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	confirmation *controller.ConfirmationController
	store        *controller.StoreController
	item         *controller.ItemController
}

func newControllersWithMock(t *testing.T, mailer service.Mailer) (*controllers, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	cfg := &config.Config{
		PublicURL:          "http://localhost:8080",
		JWTSecret:          "test-secret",
		JWTAccessTokenTTL:  15 * time.Minute,
		JWTRefreshTokenTTL: 7 * 24 * time.Hour,
		ConfirmationTTL:    30 * time.Minute,
	}

	userRepo := repository.NewUserRepository(db)
	confirmationRepo := repository.NewConfirmationRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	itemRepo := repository.NewItemRepository(db)

	authService := service.NewAuthService(userRepo, confirmationRepo, service.NewTokenBlocklist(), mailer, cfg)
	confirmationService := service.NewConfirmationService(userRepo, confirmationRepo, mailer, cfg)
	catalogService := service.NewCatalogService(storeRepo, itemRepo)

	return &controllers{
		auth:         controller.NewAuthController(authService),
		user:         controller.NewUserController(authService),
		confirmation: controller.NewConfirmationController(confirmationService),
		store:        controller.NewStoreController(catalogService),
		item:         controller.NewItemController(catalogService),
	}, mock, func() { _ = db.Close() }
}

func newJSONRequest(t *testing.T, method, path string, body any) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	return body["message"]
}

func accessClaims(userID uint64, fresh bool) *service.Claims {
	now := time.Now()
	return &service.Claims{
		UserID:    userID,
		Fresh:     fresh,
		TokenType: service.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}

func TestRegister_Success(t *testing.T) {
	mailer := &stubMailer{}
	ctrl, mock, cleanup := newControllersWithMock(t, mailer)
	defer cleanup()

	mock.ExpectQuery(findUserByUsernameQuery).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectQuery(findUserByEmailQuery).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectExec(insertUserQuery).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg(), false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertConfirmationQuery).
		WithArgs(sqlmock.AnyArg(), uint64(1), sqlmock.AnyArg(), false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req, rec := newJSONRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "password123",
		"email":    "alice@example.com",
	})
	ctx := echo.New().NewContext(req, rec)

	if err := ctrl.auth.Register(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	want := "Account created successfully, an email with an activation link has been sent to your email address, please check."
	if got := decodeMessage(t, rec); got != want {
		t.Fatalf("unexpected message: %q", got)
	}
	if mailer.sent != 1 {
		t.Fatalf("expected one confirmation email, got %d", mailer.sent)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctrl, mock, cleanup := newControllersWithMock(t, &stubMailer{})
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(findUserByUsernameQuery).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "alice", "alice@example.com", "hash", true, now, now))

	req, rec := newJSONRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "password123",
		"email":    "other@example.com",
	})
	ctx := echo.New().NewContext(req, rec)

	if err := ctrl.auth.Register(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "A user with that username already exists." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	ctrl, _, cleanup := newControllersWithMock(t, &stubMailer{})
	defer cleanup()

	req, rec := newJSONRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "alice",
	})
	ctx := echo.New().NewContext(req, rec)

	if err := ctrl.auth.Register(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var errs map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &errs); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	for _, field := range []string{"password", "email"} {
		msgs, ok := errs[field]
		if !ok || len(msgs) != 1 || msgs[0] != "Missing data for required field." {
			t.Fatalf("expected required-field error for %q, got %#v", field, errs)
		}
	}
	if _, ok := errs["username"]; ok {
		t.Fatalf("did not expect error for username, got %#v", errs)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl, mock, cleanup := newControllersWithMock(t, &stubMailer{})
	defer cleanup()

	mock.ExpectQuery(findUserByUsernameQuery).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns))

	req, rec := newJSONRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	ctx := echo.New().NewContext(req, rec)

	if err := ctrl.auth.Login(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Invalid credentials!" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestLogin_NotConfirmed(t *testing.T) {
	ctrl, mock, cleanup := newControllersWithMock(t, &stubMailer{})
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(findUserByUsernameQuery).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "alice", "alice@example.com", hashPassword(t, "password123"), false, now, now))
	mock.ExpectQuery(findMostRecentConfirmationQry).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(confirmationColumns).
			AddRow(uuid.New().String(), uint64(1), now.Add(30*time.Minute), false, now))

	req, rec := newJSONRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	ctx := echo.New().NewContext(req, rec)

	if err := ctrl.auth.Login(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	want := "You have not confirmed registration, please check your email 'alice@example.com'."
	if got := decodeMessage(t, rec); got != want {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestLogin_Success(t *testing.T) {
	ctrl, mock, cleanup := newControllersWithMock(t, &stubMailer{})
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(findUserByUsernameQuery).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "alice", "alice@example.com", hashPassword(t, "password123"), true, now, now))
	mock.ExpectQuery(findMostRecentConfirmationQry).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(confirmationColumns).
			AddRow(uuid.New().String(), uint64(1), now, true, now))

	req, rec := newJSONRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	ctx := echo.New().NewContext(req, rec)

	if err := ctrl.auth.Login(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if body["access_token"] == "" || body["access_token"] == nil {
		t.Fatal("expected access_token to be set")
	}
	if body["refresh_token"] == "" || body["refresh_token"] == nil {
		t.Fatal("expected refresh_token to be set")
	}
	if body["expires_in"].(float64) != (15 * time.Minute).Seconds() {
		t.Fatalf("unexpected expires_in: %v", body["expires_in"])
	}
}

func TestLogout_Success(t *testing.T) {
	ctrl, _, cleanup := newControllersWithMock(t, &stubMailer{})
	defer cleanup()

	req, rec := newJSONRequest(t, http.MethodPost, "/logout", nil)
	ctx := echo.New().NewContext(req, rec)
	ctx.Set(middleware.ContextKeyClaims, accessClaims(5, true))

	if err := ctrl.auth.Logout(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "User <id=5> successfully logged out." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestRefresh_IssuesAccessToken(t *testing.T) {
	ctrl, _, cleanup := newControllersWithMock(t, &stubMailer{})
	defer cleanup()

	claims := accessClaims(5, false)
	claims.TokenType = service.TokenTypeRefresh

	req, rec := newJSONRequest(t, http.MethodPost, "/refresh", nil)
	ctx := echo.New().NewContext(req, rec)
	ctx.Set(middleware.ContextKeyClaims, claims)

	if err := ctrl.auth.Refresh(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "access_token") {
		t.Fatalf("expected access_token in body, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "refresh_token") {
		t.Fatalf("refresh must not rotate the refresh token, got %s", rec.Body.String())
	}
}

func TestUserGet_NotFound(t *testing.T) {
	ctrl, mock, cleanup := newControllersWithMock(t, &stubMailer{})
	defer cleanup()

	mock.ExpectQuery(findUserByIDQuery).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	req := httptest.NewRequest(http.MethodGet, "/user/42", nil)
	rec := httptest.NewRecorder()
	ctx := echo.New().NewContext(req, rec)
	ctx.SetParamNames("user_id")
	ctx.SetParamValues("42")

	if err := ctrl.user.Get(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "User not found." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestUserGet_OmitsPasswordHash(t *testing.T) {
	ctrl, mock, cleanup := newControllersWithMock(t, &stubMailer{})
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(findUserByIDQuery).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "alice", "alice@example.com", "secret-hash", true, now, now))

	req := httptest.NewRequest(http.MethodGet, "/user/1", nil)
	rec := httptest.NewRecorder()
	ctx := echo.New().NewContext(req, rec)
	ctx.SetParamNames("user_id")
	ctx.SetParamValues("1")

	if err := ctrl.user.Get(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Fatalf("password hash leaked in response: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Fatalf("expected email in response, got %s", rec.Body.String())
	}
}
