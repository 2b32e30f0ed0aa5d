package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/ayushi2311/loyalty-rewards-api/internal/auth"
	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	xhttp "github.com/ayushi2311/loyalty-rewards-api/pkg/http"
)

type UserService interface {
	Register(ctx context.Context, p model.RegisterRequest) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, id int64, p model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page model.Page) ([]*model.User, int64, error)
}

type UserHandler struct {
	svc     UserService
	authCfg auth.Config
}

func RegisterUserRoutes(e *router.Group, h *UserHandler) {
	authed := auth.RequireAuth(h.authCfg)
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/change-password", authed(h.ChangePassword))
	e.GET("/users/me", authed(h.Me))

	e.GET("/users", authed(auth.RequireAdmin(h.ListUsers)))
	e.GET("/users/{id}", authed(auth.RequireAdmin(h.GetUser)))
	e.PUT("/users/{id}", authed(auth.RequireAdmin(h.UpdateUser)))
	e.DELETE("/users/{id}", authed(auth.RequireAdmin(h.DeleteUser)))
}

func NewUserHandler(userService UserService, authCfg auth.Config) *UserHandler {
	return &UserHandler{
		svc:     userService,
		authCfg: authCfg,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type userListResponse struct {
	Items []*model.User `json:"items"`
	Total int64         `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *UserHandler) Register(ctx *xhttp.RequestCtx) {
	var req model.RegisterRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	user, err := h.svc.Register(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, user)
}

func (h *UserHandler) Login(ctx *xhttp.RequestCtx) {
	var req loginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	user, err := h.svc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	token, err := auth.GenerateToken(h.authCfg, user)
	if err != nil {
		writeError(ctx, 500, "failed to issue token")
		return
	}
	writeJSON(ctx, 200, loginResponse{Token: token, User: user})
}

func (h *UserHandler) ChangePassword(ctx *xhttp.RequestCtx) {
	claims := auth.ClaimsFromCtx(ctx)
	var req changePasswordRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	if err := h.svc.ChangePassword(ctx, claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "password updated"})
}

func (h *UserHandler) Me(ctx *xhttp.RequestCtx) {
	claims := auth.ClaimsFromCtx(ctx)
	user, err := h.svc.GetByID(ctx, claims.UserID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, user)
}

func (h *UserHandler) ListUsers(ctx *xhttp.RequestCtx) {
	users, total, err := h.svc.List(ctx, pageFromQuery(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, userListResponse{Items: users, Total: total})
}

func (h *UserHandler) GetUser(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid user id")
		return
	}
	user, err := h.svc.GetByID(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, user)
}

func (h *UserHandler) UpdateUser(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid user id")
		return
	}
	var req model.UpdateUserRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	user, err := h.svc.Update(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, user)
}

func (h *UserHandler) DeleteUser(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid user id")
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}
