package auth

import (
	"strings"

	xhttp "github.com/ayushi2311/loyalty-rewards-api/pkg/http"
	"github.com/valyala/fasthttp"
)

const claimsKey = "auth_claims"

// RequireAuth rejects requests without a valid bearer token and stores the
// parsed claims on the request context for handlers downstream.
func RequireAuth(cfg Config) xhttp.MiddlewareFunc {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			header := string(ctx.Request.Header.Peek("Authorization"))
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(ctx, "missing bearer token")
				return
			}

			claims, err := ParseToken(cfg, token)
			if err != nil {
				unauthorized(ctx, "invalid or expired token")
				return
			}

			ctx.SetUserValue(claimsKey, claims)
			next(ctx)
		}
	}
}

// RequireAdmin rejects authenticated requests whose token lacks the admin
// role. It must run after RequireAuth.
func RequireAdmin(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		claims := ClaimsFromCtx(ctx)
		if claims == nil || !claims.IsAdmin() {
			ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
			ctx.Response.SetStatusCode(fasthttp.StatusForbidden)
			ctx.Response.SetBodyString(`{"error":"admin access required"}`)
			return
		}
		next(ctx)
	}
}

// ClaimsFromCtx returns the claims stored by RequireAuth, or nil.
func ClaimsFromCtx(ctx *fasthttp.RequestCtx) *Claims {
	claims, _ := ctx.UserValue(claimsKey).(*Claims)
	return claims
}

func unauthorized(ctx *fasthttp.RequestCtx, msg string) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.Response.SetBodyString(`{"error":"` + msg + `"}`)
}
