package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/logctx"
	"github.com/fatflowers/styler/pkg/response"
)

const userEmailKey = "user_email"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrAuthNotConfigured = errors.New("authentication is not configured")
)

// Claims are the access token claims issued by the identity provider.
type Claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

type User struct {
	ID    string
	Email string
}

// AuthMiddleware requires an HS256 bearer token. The subject becomes the
// user id on the request context and on the request logger.
func AuthMiddleware(cfg config.AuthConfig, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, base)
		if cfg.JWTSecret == "" {
			log.Errorw("auth_not_configured")
			response.AbortWithError(c, http.StatusInternalServerError, ErrAuthNotConfigured)
			return
		}
		claims, err := parseBearer(c.GetHeader("Authorization"), cfg)
		if err != nil {
			log.Infow("auth_rejected", "error", err)
			response.AbortWithError(c, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		c.Set(logctx.UserIDKey, claims.Subject)
		c.Set(userEmailKey, claims.Email)
		ctx := context.WithValue(c.Request.Context(), logctx.UserIDKey, claims.Subject)
		c.Request = c.Request.WithContext(ctx)
		setLogger(c, log.With("user_id", claims.Subject))
		c.Next()
	}
}

func parseBearer(header string, cfg config.AuthConfig) (*Claims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, errors.New("missing bearer token")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	if cfg.Audience != "" && !claims.VerifyAudience(cfg.Audience, true) {
		return nil, errors.New("unexpected audience")
	}
	return claims, nil
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c *gin.Context) (User, bool) {
	id := c.GetString(logctx.UserIDKey)
	if id == "" {
		return User{}, false
	}
	return User{ID: id, Email: c.GetString(userEmailKey)}, true
}
