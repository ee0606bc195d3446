package middleware

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	autherrors "github.com/yhnjiuy4321/BankSystem/internal/auth/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/contextutil"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// InactivityTimeout is the sliding idle window. The token's own 24h expiry is
// checked first by jwt.Parse and takes precedence.
const InactivityTimeout = 30 * time.Minute

// ActivityStore is the slice of the user storage the session middleware
// needs. Defined here so this package does not import the user package.
type ActivityStore interface {
	LastActivity(ctx context.Context, account, role string) (*time.Time, error)
	Touch(ctx context.Context, account string)
}

type Session struct {
	store  ActivityStore
	logger *zap.Logger
}

func NewSession(store ActivityStore, logger ...*zap.Logger) *Session {
	l := zap.L().Named("middleware.session")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("middleware.session")
	}
	return &Session{store: store, logger: l}
}

// Require validates the bearer token, enforces the inactivity window and
// stamps identity keys onto the gin context.
func (s *Session) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			response.Error(c, autherrors.ErrInvalidToken.HTTPStatus, autherrors.ErrInvalidToken.Code, "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, autherrors.ErrInvalidToken.HTTPStatus, autherrors.ErrInvalidToken.Code, "Invalid token claims", nil)
			c.Abort()
			return
		}

		account, _ := claims["account"].(string)
		role, _ := claims["role"].(string)
		if account == "" || role == "" {
			response.Error(c, autherrors.ErrInvalidToken.HTTPStatus, autherrors.ErrInvalidToken.Code, "Account not found in token", nil)
			c.Abort()
			return
		}

		last, err := s.store.LastActivity(c.Request.Context(), account, role)
		if err != nil {
			response.Error(c, autherrors.ErrInvalidToken.HTTPStatus, autherrors.ErrInvalidToken.Code, autherrors.ErrInvalidToken.Message, nil)
			c.Abort()
			return
		}
		if last != nil && time.Since(*last) > InactivityTimeout {
			s.logger.Info("session expired by inactivity", zap.String("account", account))
			response.Error(c, autherrors.ErrSessionInactive.HTTPStatus, "SESSION_INACTIVE", autherrors.ErrSessionInactive.Message, nil)
			c.Abort()
			return
		}

		// Refreshing the activity stamp is best effort; the store logs and
		// swallows failures.
		s.store.Touch(c.Request.Context(), account)

		employeeID, _ := claims["employee_id"].(string)
		name, _ := claims["name"].(string)
		department, _ := claims["department"].(string)
		position, _ := claims["position"].(string)

		c.Set("account", account)
		c.Set("role", role)
		c.Set("employee_id", employeeID)
		c.Set("name", name)
		c.Set("department", department)
		c.Set("position", position)

		ctx := contextutil.WithAccount(c.Request.Context(), account)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
