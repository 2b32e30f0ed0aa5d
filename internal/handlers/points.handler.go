package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/ayushi2311/loyalty-rewards-api/internal/auth"
	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/internal/services"
	xhttp "github.com/ayushi2311/loyalty-rewards-api/pkg/http"
)

type PointsService interface {
	AddPoints(ctx context.Context, p model.AddPointsRequest) (*model.PointTransaction, error)
	AddBulkPoints(ctx context.Context, p model.BulkPointsRequest) ([]model.BulkEntryOutcome, error)
	GetWallet(ctx context.Context, userID int64) (*model.WalletSummary, error)
	GetTransactionHistory(ctx context.Context, userID int64, page model.Page) (*model.TransactionHistory, error)
	GetAllTransactions(ctx context.Context, f model.TransactionFilter) (*model.TransactionHistory, error)
}

type PointsHandler struct {
	svc PointsService
}

func RegisterPointsRoutes(e *router.Group, h *PointsHandler, authCfg auth.Config) {
	authed := auth.RequireAuth(authCfg)
	e.GET("/points/wallet", authed(h.GetWallet))
	e.GET("/points/history", authed(h.GetHistory))
	e.POST("/points/add", authed(auth.RequireAdmin(h.AddPoints)))
	e.POST("/points/bulk-add", authed(auth.RequireAdmin(h.AddBulkPoints)))
	e.GET("/points/transactions", authed(auth.RequireAdmin(h.ListTransactions)))
}

func NewPointsHandler(pointsService PointsService) *PointsHandler {
	return &PointsHandler{
		svc: pointsService,
	}
}

type bulkAddResponse struct {
	Outcomes []model.BulkEntryOutcome `json:"outcomes"`
	Credited int                      `json:"credited"`
	Skipped  int                      `json:"skipped"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *PointsHandler) GetWallet(ctx *xhttp.RequestCtx) {
	claims := auth.ClaimsFromCtx(ctx)
	summary, err := h.svc.GetWallet(ctx, claims.UserID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, summary)
}

func (h *PointsHandler) GetHistory(ctx *xhttp.RequestCtx) {
	claims := auth.ClaimsFromCtx(ctx)
	history, err := h.svc.GetTransactionHistory(ctx, claims.UserID, pageFromQuery(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, history)
}

func (h *PointsHandler) AddPoints(ctx *xhttp.RequestCtx) {
	var req model.AddPointsRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	txn, err := h.svc.AddPoints(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, txn)
}

func (h *PointsHandler) AddBulkPoints(ctx *xhttp.RequestCtx) {
	var req model.BulkPointsRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	outcomes, err := h.svc.AddBulkPoints(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	resp := bulkAddResponse{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Skipped {
			resp.Skipped++
		} else {
			resp.Credited++
		}
	}
	writeJSON(ctx, 201, resp)
}

func (h *PointsHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	var f model.TransactionFilter

	if v := query(ctx, "user_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.UserID = &id
		}
	}
	if v := query(ctx, "app_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.AppID = &id
		}
	}
	if v := query(ctx, "type"); v != "" {
		t := model.TransactionType(v)
		f.Type = &t
	}
	if v := query(ctx, "status"); v != "" {
		s := model.TransactionStatus(v)
		f.Status = &s
	}
	if v := query(ctx, "from"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.From = &t
		}
	}
	if v := query(ctx, "to"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.To = &t
		}
	}
	f.Page = pageFromQuery(ctx)

	history, err := h.svc.GetAllTransactions(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, history)
}

/* --------------------------------- Helpers ----------------------------------- */

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps classified service errors onto status codes.
// Unclassified errors surface as 400 to match the request-shaped failures
// they usually are.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAppNotFound),
		errors.Is(err, services.ErrRewardNotFound),
		errors.Is(err, services.ErrRedemptionNotFound):
		writeError(ctx, 404, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(ctx, 401, err.Error())
	case errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrRewardUnavailable),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrDuplicateReference),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrConflict):
		writeError(ctx, 409, err.Error())
	default:
		writeError(ctx, 400, err.Error())
	}
}

func pageFromQuery(ctx *xhttp.RequestCtx) model.Page {
	var p model.Page
	if v := query(ctx, "page"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			p.Number = n
		}
	}
	if v := query(ctx, "page_size"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			p.Size = n
		}
	}
	return p
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	v, _ := ctx.UserValue(name).(string)
	return strconv.ParseInt(v, 10, 64)
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
