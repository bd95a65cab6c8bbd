package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"mockprep/interview/internal/models"
	"mockprep/interview/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

const callerKey contextKey = "caller"

const RoleAdmin = "admin"

var (
	ErrMissingAuthHeader = errors.New("missing or malformed Authorization header")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidClaims     = errors.New("invalid token claims")
)

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID   string
	Username string
	Role     string
}

var parseJWT = func(tokenStr string, keyFunc jwt.Keyfunc) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, keyFunc, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
}

// VerifyToken validates the bearer token of r and returns its caller.
func VerifyToken(r *http.Request, secret string) (*Caller, error) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return nil, ErrMissingAuthHeader
	}
	tokenStr := strings.TrimPrefix(authz, "Bearer ")

	token, err := parseJWT(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	userID, err := userIDFromClaims(claims)
	if err != nil {
		return nil, err
	}

	caller := &Caller{UserID: userID}
	caller.Username, _ = claims["username"].(string)
	caller.Role, _ = claims["role"].(string)
	return caller, nil
}

// userIDFromClaims extracts the "sub" claim as a string.
func userIDFromClaims(claims jwt.MapClaims) (string, error) {
	sub, ok := claims["sub"]
	if !ok {
		return "", fmt.Errorf("%w: missing sub claim", ErrInvalidClaims)
	}

	switch v := sub.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("%w: empty sub claim", ErrInvalidClaims)
		}
		return v, nil
	case float64:
		// JWT numbers get decoded as float64
		return fmt.Sprintf("%d", int64(v)), nil
	default:
		return "", fmt.Errorf("%w: invalid sub claim type", ErrInvalidClaims)
	}
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller in the request context.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := VerifyToken(r, secret)
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
					Code:    "unauthorized",
					Message: err.Error(),
				})
				return
			}
			ctx := context.WithValue(r.Context(), callerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets only callers with the given role through. It must run
// after Authenticate.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFrom(r.Context())
			if !ok || caller.Role != role {
				utils.JSON(w, http.StatusForbidden, models.ErrorResponse{
					Code:    "forbidden",
					Message: "Insufficient permissions",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CallerFrom returns the authenticated caller stored by Authenticate.
func CallerFrom(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(callerKey).(*Caller)
	return caller, ok
}

// WithCaller stores caller in ctx. Handler tests use it to skip token parsing.
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}
