package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID      ctxKey = "user_id"
	CtxKeyPermissions ctxKey = "permissions"
	CtxKeyAccessToken ctxKey = "access_token" // raw token, needed for revocation
)

// UserIDFromCtx returns the authenticated user's id, or "".
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// PermissionsFromCtx returns the verified permission claims, or nil.
func PermissionsFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyPermissions).([]string); ok {
		return v
	}
	return nil
}

// AccessTokenFromCtx returns the raw bearer token the request carried.
func AccessTokenFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyAccessToken).(string); ok {
		return v
	}
	return ""
}
