package middleware

import (
	"net/http"
	"time"

	"appointment-booking/internal/data/repository"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

// ActiveSubscription blocks management endpoints for tenants whose
// subscription lapsed. Runs after AuthSession.
func ActiveSubscription(subscriptionRepo repository.SubscriptionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			subscription, err := subscriptionRepo.FindByUserID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to check subscription",
					zap.Error(err),
					zap.String("user_id", userID.String()),
				)
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if subscription == nil || subscription.Expired || !subscription.Expiration.After(time.Now()) {
				logger.Warn("Blocked request with lapsed subscription",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Subscription expired. Renew to continue.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
