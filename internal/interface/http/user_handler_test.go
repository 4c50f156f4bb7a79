package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	userapp "github.com/oksasatya/user-accounts-api/internal/application"
	"github.com/oksasatya/user-accounts-api/internal/domain/entity"
	"github.com/oksasatya/user-accounts-api/internal/domain/repository"
	handlers "github.com/oksasatya/user-accounts-api/internal/interface/http"
	"github.com/oksasatya/user-accounts-api/internal/mocks"
	"github.com/oksasatya/user-accounts-api/pkg/helpers"
)

var stamp = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newRouter(t *testing.T) (*gin.Engine, *mocks.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repoMock := new(mocks.UserRepository)
	svc := userapp.NewService(repoMock, helpers.BcryptHasher{Cost: bcrypt.MinCost}, nil, logger)
	h := handlers.NewUserHandler(svc, logger)

	r := gin.New()
	users := r.Group("/api/users")
	users.GET("", h.List)
	users.POST("", h.Create)
	users.GET("/:id", h.Get)
	users.PUT("/:id", h.Update)
	users.DELETE("/:id", h.Delete)
	return r, repoMock
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func alice() *entity.User {
	return &entity.User{
		ID:        1,
		Email:     "alice@x.com",
		FirstName: "Alice",
		LastName:  "Liddell",
		Roles:     []string{entity.RoleUser},
		Password:  "hash",
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) handlers.UserView {
	t.Helper()
	var v handlers.UserView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestListUsers(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindActive", mock.Anything).Return([]*entity.User{alice()}, nil).Once()

	w := do(r, http.MethodGet, "/api/users", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got []handlers.UserView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	want := []handlers.UserView{{
		ID: 1, Email: "alice@x.com", FirstName: "Alice", LastName: "Liddell",
		Roles: []string{entity.RoleUser}, CreatedAt: stamp, UpdatedAt: stamp,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected users (-want +got):\n%s", diff)
	}
	assert.NotContains(t, w.Body.String(), "password")
}

func TestListUsers_Empty(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindActive", mock.Anything).Return([]*entity.User{}, nil).Once()

	w := do(r, http.MethodGet, "/api/users", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListUsers_BackendError(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindActive", mock.Anything).Return(nil, errors.New("pool closed")).Once()

	w := do(r, http.MethodGet, "/api/users", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, w.Body.String())
}

func TestGetUser(t *testing.T) {
	r, repoMock := newRouter(t)
	deletedAt := stamp
	gone := alice()
	gone.ID = 2
	gone.DeletedAt = &deletedAt

	repoMock.On("FindByID", mock.Anything, int64(1)).Return(alice(), nil)
	repoMock.On("FindByID", mock.Anything, int64(2)).Return(gone, nil)
	repoMock.On("FindByID", mock.Anything, int64(3)).Return(nil, repository.ErrNotFound)

	w := do(r, http.MethodGet, "/api/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@x.com", decodeView(t, w).Email)

	for _, path := range []string{"/api/users/2", "/api/users/3", "/api/users/abc", "/api/users/0"} {
		w = do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String(), path)
	}
}

func TestCreateUser(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindByEmail", mock.Anything, "bob@x.com").Return(nil, repository.ErrNotFound).Once()
	repoMock.On("Save", mock.Anything, mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*entity.User)
		u.ID, u.CreatedAt, u.UpdatedAt = 10, stamp, stamp
	}).Return(nil).Once()

	w := do(r, http.MethodPost, "/api/users",
		`{"email":"bob@x.com","firstName":"Bob","lastName":"Builder","password":"hunter22"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	v := decodeView(t, w)
	assert.Equal(t, int64(10), v.ID)
	assert.Equal(t, []string{entity.RoleUser}, v.Roles)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "hunter22")
	repoMock.AssertExpectations(t)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindByEmail", mock.Anything, "alice@x.com").Return(alice(), nil).Once()

	w := do(r, http.MethodPost, "/api/users", `{"email":"alice@x.com","firstName":"A","lastName":"B"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":{"email":"Email is already in use"}}`, w.Body.String())
	repoMock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateUser_Violations(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindByEmail", mock.Anything, "nope").Return(nil, repository.ErrNotFound).Once()

	w := do(r, http.MethodPost, "/api/users", `{"email":"nope","firstName":"A","lastName":"B","roles":["ROLE_USER",""]}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "This value is not a valid email address.", body.Errors["email"])
	assert.Contains(t, body.Errors, "roles[1]")
	repoMock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateUser_InvalidJSON(t *testing.T) {
	r, _ := newRouter(t)

	for _, body := range []string{`{"email":`, `{"roles":"ROLE_USER"}`, ``} {
		w := do(r, http.MethodPost, "/api/users", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"errors":{"payload":"invalid json"}}`, w.Body.String(), body)
	}
}

func TestUpdateUser(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindByID", mock.Anything, int64(1)).Return(alice(), nil).Once()
	repoMock.On("Save", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.FirstName == "Alicia" && u.Email == "alice@x.com"
	})).Return(nil).Once()

	w := do(r, http.MethodPut, "/api/users/1", `{"firstName":"Alicia"}`)

	require.Equal(t, http.StatusOK, w.Code)
	v := decodeView(t, w)
	assert.Equal(t, "Alicia", v.FirstName)
	assert.Equal(t, "Liddell", v.LastName)
	repoMock.AssertExpectations(t)
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	r, repoMock := newRouter(t)
	other := alice()
	other.ID = 2
	other.Email = "taken@x.com"
	repoMock.On("FindByID", mock.Anything, int64(1)).Return(alice(), nil).Once()
	repoMock.On("FindByEmail", mock.Anything, "taken@x.com").Return(other, nil).Once()

	w := do(r, http.MethodPut, "/api/users/1", `{"email":"taken@x.com","firstName":"Changed"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":{"email":"This email is already taken."}}`, w.Body.String())
	repoMock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateUser_NotFound(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindByID", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound).Once()

	w := do(r, http.MethodPut, "/api/users/9", `{"firstName":"X"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/api/users/x", `{"firstName":"X"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUser_InvalidJSON(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindByID", mock.Anything, int64(1)).Return(alice(), nil).Once()

	w := do(r, http.MethodPut, "/api/users/1", `{"firstName":`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":{"payload":"invalid json"}}`, w.Body.String())
}

func TestDeleteUser(t *testing.T) {
	r, repoMock := newRouter(t)
	u := alice()
	repoMock.On("FindByID", mock.Anything, int64(1)).Return(u, nil)
	repoMock.On("SoftDelete", u).Run(func(args mock.Arguments) {
		now := time.Now()
		args.Get(0).(*entity.User).DeletedAt = &now
	}).Once()
	repoMock.On("Save", mock.Anything, u).Return(nil).Once()

	w := do(r, http.MethodDelete, "/api/users/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, http.MethodDelete, "/api/users/1", "")
	require.Equal(t, http.StatusGone, w.Code)
	assert.JSONEq(t, `{"message":"User already deleted"}`, w.Body.String())
	repoMock.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindByID", mock.Anything, int64(4)).Return(nil, repository.ErrNotFound).Once()

	w := do(r, http.MethodDelete, "/api/users/4", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
}

func TestCreateUser_PasswordTooLong(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindByEmail", mock.Anything, "long@x.com").Return(nil, repository.ErrNotFound).Once()

	w := do(r, http.MethodPost, "/api/users",
		`{"email":"long@x.com","firstName":"L","lastName":"P","password":"`+strings.Repeat("a", 73)+`"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":{"password":"This value is too long. It should have 72 bytes or less."}}`, w.Body.String())
	repoMock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateUser_StaleCopyAfterDeleteIsNotFound(t *testing.T) {
	r, repoMock := newRouter(t)
	repoMock.On("FindByID", mock.Anything, int64(1)).Return(alice(), nil).Once()
	repoMock.On("Save", mock.Anything, mock.AnythingOfType("*entity.User")).Return(repository.ErrNotFound).Once()

	w := do(r, http.MethodPut, "/api/users/1", `{"firstName":"Late"}`)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
}
