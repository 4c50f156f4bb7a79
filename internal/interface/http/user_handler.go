package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/user-accounts-api/internal/application"
	"github.com/oksasatya/user-accounts-api/internal/domain/entity"
	"github.com/oksasatya/user-accounts-api/pkg/helpers"
	"github.com/oksasatya/user-accounts-api/pkg/response"
	"github.com/oksasatya/user-accounts-api/pkg/validation"
)

const (
	msgUserNotFound       = "User not found"
	msgUserAlreadyDeleted = "User already deleted"
)

// UserService is the part of the application service the handler drives.
type UserService interface {
	GetAllUsers(ctx context.Context) ([]*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	FindUser(ctx context.Context, id int64) (*entity.User, error)
	CreateUser(ctx context.Context, in userapp.CreateUserInput) (*entity.User, error)
	UpdateUser(ctx context.Context, u *entity.User, in userapp.UpdateUserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, u *entity.User) (bool, error)
}

type UserHandler struct {
	Svc    UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// userRequest is shared by POST and PUT; absent keys stay nil.
type userRequest struct {
	Email     *string  `json:"email"`
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	Roles     []string `json:"roles"`
	Password  *string  `json:"password"`
}

// UserView is the public representation of an account.
type UserView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toView(u *entity.User) UserView {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.GetAllUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, toView(u))
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toView(u))
}

func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, validation.ToDetails(err))
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), userapp.CreateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
		Password:  req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, toView(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, validation.ToDetails(err))
		return
	}
	u, err = h.Svc.UpdateUser(c.Request.Context(), u, userapp.UpdateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
		Password:  req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toView(u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.Svc.FindUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	deleted, err := h.Svc.DeleteUser(c.Request.Context(), u)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !deleted {
		response.Message(c, http.StatusGone, msgUserAlreadyDeleted)
		return
	}
	response.NoContent(c)
}

// parseID answers 404 for ids that cannot name a row.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Message(c, http.StatusNotFound, msgUserNotFound)
		return 0, false
	}
	return id, true
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	var verr *userapp.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Errors(c, verr.Fields)
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Message(c, http.StatusNotFound, msgUserNotFound)
	default:
		helpers.LogError(h.Logger, "user request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		response.InternalError(c)
	}
}
