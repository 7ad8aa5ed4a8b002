package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/auth"
	"github.com/mugiliam/notecatalogsrv/internal/config"
	"github.com/mugiliam/notecatalogsrv/internal/db"
	"github.com/mugiliam/notecatalogsrv/internal/db/dbmanager"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdmin    = "admin"
	testPassword = "correct horse battery staple"
)

var (
	hashOnce     sync.Once
	testPassHash string
)

// setupAuth configures the admin account.
func setupAuth(t *testing.T) {
	t.Helper()
	hashOnce.Do(func() {
		h, err := auth.HashPassword(testPassword)
		if err != nil {
			panic(err)
		}
		testPassHash = h
	})

	c := config.Default()
	c.Auth.AdminUsername = testAdmin
	c.Auth.AdminPasswordHash = testPassHash
	c.Auth.TokenSecret = "test-secret"
	c.Auth.TokenTTL = config.Duration{Duration: time.Hour}
	prev := config.Config()
	config.Set(c)
	t.Cleanup(func() { config.Set(prev) })
}

// setupTest installs a fresh migrated in-memory store and an admin account.
func setupTest(t *testing.T) {
	t.Helper()
	setupAuth(t)

	ctx := log.Logger.WithContext(context.Background())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", uuid.NewString())
	pool, err := dbmanager.NewScopedDb(ctx, dbmanager.Options{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	db.Init(pool)

	// keep one connection open so the shared in-memory database outlives requests
	keepCtx := db.ConnCtx(ctx)
	require.NotNil(t, db.DB(keepCtx))
	require.NoError(t, db.DB(keepCtx).Migrate(keepCtx))

	t.Cleanup(func() {
		db.DB(keepCtx).Close(keepCtx)
		db.Init(nil)
		pool.Close()
	})
}

func executeTestRequest(t *testing.T, req *http.Request, token *string) *httptest.ResponseRecorder {
	s, err := CreateNewServer()
	assert.NoError(t, err, "create new server")

	if token != nil {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	// Mount Handlers
	s.MountHandlers()

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func checkHeader(t *testing.T, h http.Header) {
	expected := "application/json"
	got := h.Get("Content-Type")
	assert.Equal(t, expected, got, "Content-Type expected %s, got %s", expected, got)
	assert.NotEmpty(t, h.Get("X-Request-ID"), "No Request Id")
}

func compareJson(t *testing.T, expected any, actual string) {
	j, err := json.Marshal(expected)
	assert.NoError(t, err, "json marshal")
	assert.JSONEq(t, string(j), actual, "Expected: %v\n Got: %v\n", expected, actual)
}

func setRequestBodyAndHeader(t *testing.T, req *http.Request, data interface{}) {
	// Marshal the data into JSON
	jsonData, err := json.Marshal(data)
	assert.NoError(t, err, "Failed to marshal data into JSON")

	// Set the request body to the JSON
	req.Body = io.NopCloser(bytes.NewReader(jsonData))
	req.ContentLength = int64(len(jsonData))

	// Set the Content-Type header to application/json
	req.Header.Set("Content-Type", "application/json")
}

// doJson sends body (if any) as JSON and decodes a JSON response into out (if any).
func doJson(t *testing.T, method, target string, body any, token *string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	if body != nil {
		setRequestBodyAndHeader(t, req, body)
	}
	rsp := executeTestRequest(t, req, token)
	if out != nil && rsp.Code < 300 {
		require.NoError(t, json.Unmarshal(rsp.Body.Bytes(), out), rsp.Body.String())
	}
	return rsp
}

func login(t *testing.T) *string {
	t.Helper()
	var rsp api.LoginRsp
	rr := doJson(t, http.MethodPost, "/api/auth/login",
		&api.LoginReq{Username: testAdmin, Password: testPassword}, nil, &rsp)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NotEmpty(t, rsp.Token)
	return &rsp.Token
}
