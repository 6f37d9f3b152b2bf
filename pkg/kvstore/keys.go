package kvstore

import "strings"

const (
	keyCart           = "cart"
	keyWishlist       = "wishlist"
	keyRecentSearches = "recent_searches"
	keyCurrentUser    = "current_user"
	keyAuthToken      = "auth_token"
)

// CartKey addresses the serialized cart line list for a session.
func CartKey(sessionID string) string { return buildKey(keyCart, sessionID) }

// WishlistKey addresses the serialized wishlist entries for a session.
func WishlistKey(sessionID string) string { return buildKey(keyWishlist, sessionID) }

// RecentSearchesKey addresses the recent-query list for a session.
func RecentSearchesKey(sessionID string) string { return buildKey(keyRecentSearches, sessionID) }

// CurrentUserKey addresses the signed-in user snapshot for a session.
func CurrentUserKey(sessionID string) string { return buildKey(keyCurrentUser, sessionID) }

// AuthTokenKey addresses the opaque backend token for a session.
func AuthTokenKey(sessionID string) string { return buildKey(keyAuthToken, sessionID) }

func buildKey(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
