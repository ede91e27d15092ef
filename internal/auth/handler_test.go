package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/kmarchais/geography-game/internal/auth"
	"github.com/kmarchais/geography-game/internal/config"
	"github.com/kmarchais/geography-game/internal/store"
)

// stubVerifier returns fixed claims, or an error, without touching Google.
type stubVerifier struct {
	claims *auth.IdentityClaims
	err    error
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (*auth.IdentityClaims, error) {
	return s.claims, s.err
}

func loginApp(t *testing.T, verifier auth.TokenVerifier) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(sqlx.NewDb(db, "sqlmock"), 2*time.Second)
	issuer := auth.NewIssuer(testSecret, time.Hour)
	reg := auth.NewRegistry(&config.Config{}, st, verifier, issuer)

	app := fiber.New()
	app.Post("/api/auth/google", reg.GoogleAuth)
	return app, mock
}

func postLogin(t *testing.T, app *fiber.App, body string, contentType string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/auth/google", bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp.StatusCode, parsed
}

func expectLoginQueries(mock sqlmock.Sqlmock, sub, email, name, picture string, userID int64, isAdmin bool) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (google_id, email, name, profile_picture_url, last_login)`)).
		WithArgs(sub, email, name, picture).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID))
	mock.ExpectCommit()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "google_id", "email", "name", "profile_picture_url", "is_admin", "created_at", "last_login"}).
			AddRow(userID, sub, email, name, picture, isAdmin, now, now))
}

func TestGoogleAuth_Success(t *testing.T) {
	verifier := &stubVerifier{claims: &auth.IdentityClaims{Sub: "g1", Email: "a@x.com", Name: "A", Picture: "https://pic"}}
	app, mock := loginApp(t, verifier)
	expectLoginQueries(mock, "g1", "a@x.com", "A", "https://pic", 5, false)

	status, body := postLogin(t, app, `{"token":"id-token"}`, "application/json")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "success", body["status"])
	require.NotEmpty(t, body["access_token"])

	user := body["user"].(map[string]any)
	require.Equal(t, float64(5), user["id"])
	require.Equal(t, "g1", user["google_id"])
	require.Equal(t, "a@x.com", user["email"])
	require.Equal(t, false, user["is_admin"])
	require.NoError(t, mock.ExpectationsWereMet())

	// the minted session token carries the database's view of the user
	issuer := auth.NewIssuer(testSecret, time.Hour)
	claims, err := issuer.Parse(body["access_token"].(string))
	require.NoError(t, err)
	require.Equal(t, int64(5), claims.UserID)
	require.False(t, claims.IsAdmin)
}

// Logging in twice with the same identity yields the same user id, and
// the admin flag survives both calls untouched.
func TestGoogleAuth_Idempotent(t *testing.T) {
	verifier := &stubVerifier{claims: &auth.IdentityClaims{Sub: "g1", Email: "a@x.com", Name: "A"}}
	app, mock := loginApp(t, verifier)

	expectLoginQueries(mock, "g1", "a@x.com", "A", "", 5, true)
	status, first := postLogin(t, app, `{"token":"t1"}`, "application/json")
	require.Equal(t, fiber.StatusOK, status)

	// second login with an updated display name
	verifier.claims = &auth.IdentityClaims{Sub: "g1", Email: "a@x.com", Name: "A2"}
	expectLoginQueries(mock, "g1", "a@x.com", "A2", "", 5, true)
	status, second := postLogin(t, app, `{"token":"t2"}`, "application/json")
	require.Equal(t, fiber.StatusOK, status)

	firstUser := first["user"].(map[string]any)
	secondUser := second["user"].(map[string]any)
	require.Equal(t, firstUser["id"], secondUser["id"])
	require.Equal(t, "A2", secondUser["name"])
	require.Equal(t, true, secondUser["is_admin"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoogleAuth_NonJSONBody(t *testing.T) {
	app, _ := loginApp(t, &stubVerifier{})
	status, _ := postLogin(t, app, "token=abc", "application/x-www-form-urlencoded")
	require.Equal(t, fiber.StatusUnsupportedMediaType, status)
}

func TestGoogleAuth_MissingToken(t *testing.T) {
	app, _ := loginApp(t, &stubVerifier{})
	status, body := postLogin(t, app, `{}`, "application/json")
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "missing token", body["error"])
}

func TestGoogleAuth_InvalidToken(t *testing.T) {
	app, _ := loginApp(t, &stubVerifier{err: auth.ErrInvalidToken})
	status, body := postLogin(t, app, `{"token":"bad"}`, "application/json")
	require.Equal(t, fiber.StatusUnauthorized, status)
	require.Equal(t, "invalid token", body["error"])
}

func TestGoogleAuth_MissingEmailClaim(t *testing.T) {
	app, _ := loginApp(t, &stubVerifier{claims: &auth.IdentityClaims{Sub: "g1"}})
	status, _ := postLogin(t, app, `{"token":"t"}`, "application/json")
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestGoogleAuth_StoreFailure(t *testing.T) {
	verifier := &stubVerifier{claims: &auth.IdentityClaims{Sub: "g1", Email: "a@x.com"}}
	app, mock := loginApp(t, verifier)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("g1", "a@x.com", "", "").
		WillReturnError(errors.New("pool exhausted"))
	mock.ExpectRollback()

	status, body := postLogin(t, app, `{"token":"t"}`, "application/json")
	require.Equal(t, fiber.StatusInternalServerError, status)
	require.Equal(t, "database operation failed", body["error"])
	require.NoError(t, mock.ExpectationsWereMet())
}
