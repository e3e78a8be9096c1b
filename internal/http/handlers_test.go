package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/smoradi/customer-api/internal/auth"
	"github.com/smoradi/customer-api/internal/http/middleware"
	"github.com/smoradi/customer-api/internal/model"
	"github.com/smoradi/customer-api/internal/repository"
	"github.com/smoradi/customer-api/internal/service/account"
	"github.com/stretchr/testify/require"
)

// fakeRepo is a minimal in-memory credential store for endpoint tests.
type fakeRepo struct {
	mu   sync.Mutex
	rows map[string]*model.Customer
}

var _ repository.CustomersRepository = (*fakeRepo)(nil)

func (r *fakeRepo) Create(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.rows {
		if ex.Email == c.Email || ex.Username == c.Username {
			return repository.ErrDuplicateEntry
		}
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *fakeRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.rows {
		if ex.Email == email || ex.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.rows {
		if ex.Email == email {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ex, ok := r.rows[id]; ok {
		cp := *ex
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) Save(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *fakeRepo) List(_ context.Context) ([]model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Customer, 0, len(r.rows))
	for _, ex := range r.rows {
		out = append(out, *ex)
	}
	return out, nil
}

type fakeUploader struct{ url string }

func (u *fakeUploader) Upload(context.Context, []byte, string) (string, error) {
	return u.url, nil
}

// newTestAPI wires the route table the way NewServer does, minus the real
// database and metrics endpoint.
func newTestAPI(t *testing.T) (*echo.Echo, *fakeRepo, *auth.TokenService) {
	t.Helper()

	repo := &fakeRepo{rows: map[string]*model.Customer{}}
	tokens := auth.NewTokenService("test-secret", time.Hour)
	svc := account.New(repo, tokens, &fakeUploader{url: "https://img.example.com/c/p.png"}, "customer_profiles")

	e := echo.New()
	authMW := middleware.BearerAuthMiddleware(tokens)
	adminMW := middleware.AdminOnlyMiddleware()

	e.POST("/register", registerHandler(svc))
	e.POST("/login", loginHandler(svc))
	e.GET("/profile", getProfileHandler(svc), authMW)
	e.PUT("/profile/:id", updateProfileHandler(svc), authMW)
	e.DELETE("/profile/:id", deleteProfileHandler(svc), authMW)
	e.GET("/customer", listCustomersHandler(svc), authMW, adminMW)

	return e, repo, tokens
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestAPI(t)

	rec := doJSON(e, http.MethodPost, "/register",
		`{"email":"a@example.com","username":"alice","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.NotEmpty(t, body["token"])
	cust, ok := body["customer"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "a@example.com", cust["email"])
	require.NotContains(t, cust, "password")

	// missing field
	rec = doJSON(e, http.MethodPost, "/register", `{"email":"b@example.com"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// duplicate username
	rec = doJSON(e, http.MethodPost, "/register",
		`{"email":"c@example.com","username":"alice","password":"pw"}`, "")
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestAPI(t)

	doJSON(e, http.MethodPost, "/register",
		`{"email":"a@example.com","username":"alice","password":"pw"}`, "")

	rec := doJSON(e, http.MethodPost, "/login", `{"email":"a@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.NotEmpty(t, body["token"])

	rec = doJSON(e, http.MethodPost, "/login", `{"email":"a@example.com","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid email or password", decodeBody(t, rec)["error"])

	rec = doJSON(e, http.MethodPost, "/login", `{"email":"a@example.com"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileEndpoint(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestAPI(t)

	rec := doJSON(e, http.MethodPost, "/register",
		`{"email":"a@example.com","username":"alice","password":"pw"}`, "")
	token := decodeBody(t, rec)["token"].(string)

	// no token
	rec = doJSON(e, http.MethodGet, "/profile", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// register token resolves the same customer
	rec = doJSON(e, http.MethodGet, "/profile", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	cust := decodeBody(t, rec)["customer"].(map[string]any)
	require.Equal(t, "alice", cust["username"])
	require.NotContains(t, cust, "password")
}

func TestUpdateProfileEndpoint(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestAPI(t)

	rec := doJSON(e, http.MethodPost, "/register",
		`{"email":"a@example.com","username":"alice","password":"pw"}`, "")
	body := decodeBody(t, rec)
	token := body["token"].(string)
	id := body["customer"].(map[string]any)["id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("phone", "+3598812345"))
	fw, err := mw.CreateFormFile("image", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte{0x89, 0x50})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/profile/"+id, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	cust := decodeBody(t, rr)["customer"].(map[string]any)
	require.Equal(t, "+3598812345", cust["phone"])
	require.Equal(t, "https://img.example.com/c/p.png", cust["image"])
	require.Equal(t, "alice", cust["username"])
}

func TestDeleteProfileEndpoint(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestAPI(t)

	rec := doJSON(e, http.MethodPost, "/register",
		`{"email":"a@example.com","username":"alice","password":"pw"}`, "")
	body := decodeBody(t, rec)
	token := body["token"].(string)
	id := body["customer"].(map[string]any)["id"].(string)

	rec = doJSON(e, http.MethodDelete, "/profile/"+id, "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	// repeat delete is a clean 404, not a crash
	rec = doJSON(e, http.MethodDelete, "/profile/"+id, "", token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCustomersEndpoint(t *testing.T) {
	t.Parallel()

	e, _, tokens := newTestAPI(t)

	doJSON(e, http.MethodPost, "/register",
		`{"email":"a@example.com","username":"alice","password":"pw"}`, "")
	doJSON(e, http.MethodPost, "/register",
		`{"email":"b@example.com","username":"bob","password":"pw"}`, "")

	// non-admin: forbidden at the gate
	rec := doJSON(e, http.MethodPost, "/login", `{"email":"a@example.com","password":"pw"}`, "")
	userToken := decodeBody(t, rec)["token"].(string)

	rec = doJSON(e, http.MethodGet, "/customer", "", userToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// admin token
	adminTok, err := tokens.Issue(auth.Claims{CustomerID: "admin-1", IsAdmin: true}, 0)
	require.NoError(t, err)

	rec = doJSON(e, http.MethodGet, "/customer", "", adminTok)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	customers := body["customers"].([]any)
	require.Len(t, customers, 2)
	for _, c := range customers {
		require.NotContains(t, c.(map[string]any), "password")
	}

	// no token at all
	rec = doJSON(e, http.MethodGet, "/customer", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
