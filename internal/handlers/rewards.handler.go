package handlers

import (
	"context"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/ayushi2311/loyalty-rewards-api/internal/auth"
	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	xhttp "github.com/ayushi2311/loyalty-rewards-api/pkg/http"
)

type RewardsService interface {
	CreateReward(ctx context.Context, p model.CreateRewardRequest) (*model.Reward, error)
	GetReward(ctx context.Context, id int64) (*model.Reward, error)
	ListRewards(ctx context.Context) ([]*model.Reward, error)
	UpdateReward(ctx context.Context, id int64, p model.UpdateRewardRequest) (*model.Reward, error)
	DeleteReward(ctx context.Context, id int64) error
	RedeemReward(ctx context.Context, userID int64, p model.RedeemRequest) (*model.Redemption, error)
	ProcessRedemption(ctx context.Context, id, adminID int64, p model.ProcessRequest) (*model.Redemption, error)
	GetRedemptionHistory(ctx context.Context, userID int64, page model.Page) (*model.RedemptionHistory, error)
	GetAllRedemptions(ctx context.Context, f model.RedemptionFilter) (*model.RedemptionHistory, error)
}

type RewardsHandler struct {
	svc RewardsService
}

func RegisterRewardsRoutes(e *router.Group, h *RewardsHandler, authCfg auth.Config) {
	authed := auth.RequireAuth(authCfg)
	e.GET("/rewards", authed(h.ListRewards))
	e.GET("/rewards/{id}", authed(h.GetReward))
	e.POST("/rewards", authed(auth.RequireAdmin(h.CreateReward)))
	e.PUT("/rewards/{id}", authed(auth.RequireAdmin(h.UpdateReward)))
	e.DELETE("/rewards/{id}", authed(auth.RequireAdmin(h.DeleteReward)))

	e.POST("/rewards/redeem", authed(h.Redeem))
	e.GET("/rewards/redemptions", authed(h.ListMyRedemptions))
	e.GET("/rewards/redemptions/all", authed(auth.RequireAdmin(h.ListAllRedemptions)))
	e.PUT("/rewards/redemptions/{id}/process", authed(auth.RequireAdmin(h.ProcessRedemption)))
}

func NewRewardsHandler(rewardsService RewardsService) *RewardsHandler {
	return &RewardsHandler{
		svc: rewardsService,
	}
}

type rewardListResponse struct {
	Items []*model.Reward `json:"items"`
	Total int             `json:"total"`
}

/* --------------------------------- Catalog ----------------------------------- */

func (h *RewardsHandler) ListRewards(ctx *xhttp.RequestCtx) {
	rewards, err := h.svc.ListRewards(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, rewardListResponse{Items: rewards, Total: len(rewards)})
}

func (h *RewardsHandler) GetReward(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid reward id")
		return
	}
	reward, err := h.svc.GetReward(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, reward)
}

func (h *RewardsHandler) CreateReward(ctx *xhttp.RequestCtx) {
	var req model.CreateRewardRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	reward, err := h.svc.CreateReward(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, reward)
}

func (h *RewardsHandler) UpdateReward(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid reward id")
		return
	}
	var req model.UpdateRewardRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	reward, err := h.svc.UpdateReward(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, reward)
}

func (h *RewardsHandler) DeleteReward(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid reward id")
		return
	}
	if err := h.svc.DeleteReward(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}

/* ------------------------------- Redemptions --------------------------------- */

func (h *RewardsHandler) Redeem(ctx *xhttp.RequestCtx) {
	claims := auth.ClaimsFromCtx(ctx)
	var req model.RedeemRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	red, err := h.svc.RedeemReward(ctx, claims.UserID, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, red)
}

func (h *RewardsHandler) ListMyRedemptions(ctx *xhttp.RequestCtx) {
	claims := auth.ClaimsFromCtx(ctx)
	history, err := h.svc.GetRedemptionHistory(ctx, claims.UserID, pageFromQuery(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, history)
}

func (h *RewardsHandler) ListAllRedemptions(ctx *xhttp.RequestCtx) {
	var f model.RedemptionFilter

	if v := query(ctx, "user_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.UserID = &id
		}
	}
	if v := query(ctx, "reward_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.RewardID = &id
		}
	}
	if v := query(ctx, "status"); v != "" {
		s := model.RedemptionStatus(v)
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

	history, err := h.svc.GetAllRedemptions(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, history)
}

func (h *RewardsHandler) ProcessRedemption(ctx *xhttp.RequestCtx) {
	claims := auth.ClaimsFromCtx(ctx)
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid redemption id")
		return
	}
	var req model.ProcessRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	red, err := h.svc.ProcessRedemption(ctx, id, claims.UserID, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, red)
}
