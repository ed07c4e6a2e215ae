package utils

import (
	"context"
	"time"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"
const ContextOrgIDKey contextKey = "orgID"

// SessionData is the slice of a session row the middleware cares about,
// independent of which package owns the sessions table.
type SessionData struct {
	UserID    string
	OrgID     string
	ExpiresAt time.Time
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

func GetOrgIDFromContext(ctx context.Context) (string, bool) {
	orgID := ctx.Value(ContextOrgIDKey)
	orgIDStr, ok := orgID.(string)
	return orgIDStr, ok
}
