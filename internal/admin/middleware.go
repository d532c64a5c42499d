package admin

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	headerAdminKey  = "X-Admin-Key"
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxAdminSubject = "admin_subject"
)

// AuthConfig - bcrypt-хеш ключа для X-Admin-Key и/или секрет HS256 для Bearer
type AuthConfig struct {
	KeyHash   string
	JWTSecret string
}

func (c AuthConfig) Enabled() bool {
	return c.KeyHash != "" || c.JWTSecret != ""
}

// AuthMiddleware пускает по X-Admin-Key или по Bearer-токену
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(headerAdminKey); key != "" && cfg.KeyHash != "" {
			if bcrypt.CompareHashAndPassword([]byte(cfg.KeyHash), []byte(key)) == nil {
				c.Set(ctxAdminSubject, "admin-key")
				c.Next()
				return
			}
		}

		if token, ok := bearer(c.GetHeader("Authorization")); ok && cfg.JWTSecret != "" {
			subject, err := verifyToken(cfg.JWTSecret, token)
			if err == nil {
				c.Set(ctxAdminSubject, subject)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// IssueToken выпускает HS256-токен для админки
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not set")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func verifyToken(secret, raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// HashKey - bcrypt-хеш ключа для конфига
func HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// RequestID проставляет X-Request-ID, если клиент его не прислал
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// Logger пишет каждый запрос в zap
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ctxRequestID)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("admin request", fields...)
			return
		}
		logger.Info("admin request", fields...)
	}
}
