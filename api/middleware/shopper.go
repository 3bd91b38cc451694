package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/moda-storefront/api/responses"
	"github.com/angelmondragon/moda-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
)

const (
	ProfileHeader = "X-Moda-Profile"
	UserHeader    = "X-Moda-User"
)

// Shopper resolves the device profile (header, then ?profile=) and the shopper
// id. Requests without a user header act as defaultUserID.
func Shopper(logg *logger.Logger, defaultUserID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(ProfileHeader)
			if raw == "" {
				raw = r.URL.Query().Get("profile")
			}
			profile, err := cart.NormalizeProfile(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			userID := defaultUserID
			if v := strings.TrimSpace(r.Header.Get(UserHeader)); v != "" {
				parsed, err := strconv.ParseInt(v, 10, 64)
				if err != nil || parsed <= 0 {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Usuario inválido").
						WithDetails(map[string]any{"header": UserHeader}))
					return
				}
				userID = parsed
			}

			ctx := WithUserID(WithProfile(r.Context(), profile), userID)
			if logg != nil {
				ctx = logg.WithProfile(ctx, profile)
				ctx = logg.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
