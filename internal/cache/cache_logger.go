package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateProfileCache drops the cached profile view plus the search
// results and stats that might embed it.
func InvalidateProfileCache(ctx context.Context, cm *CacheManager, handle string) {
	SafeDelete(ctx, cm.Profile, fmt.Sprintf("handle:%s", handle))
	SafeInvalidatePattern(ctx, cm.Profile, "search:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("profile:%s:*", handle))
}

// InvalidateSessionCache drops a session's cached detail plus every list
// that might contain it, and the owner's profile (counts live there).
func InvalidateSessionCache(ctx context.Context, cm *CacheManager, sessionID, ownerHandle string) {
	SafeDelete(ctx, cm.Session, fmt.Sprintf("id:%s", sessionID))
	SafeInvalidatePattern(ctx, cm.Session, "search:*")
	SafeInvalidatePattern(ctx, cm.Session, fmt.Sprintf("owner:%s:*", ownerHandle))
	InvalidateProfileCache(ctx, cm, ownerHandle)
}

// InvalidateUserCache drops the auth-middleware lookup entries for a user.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID, handle string) {
	SafeDelete(ctx, cm.User,
		fmt.Sprintf("id:%s", userID),
		fmt.Sprintf("handle:%s", handle))
	SafeInvalidatePattern(ctx, cm.Exists, "*")
}
