package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/collegedesk/console/core"
)

const (
	tokenContextKey = "viewerToken"
	audience        = "Console"
)

// Claims represents the authorization claims transmitted via a JWT.
// The role flags decide what the viewer may edit.
type Claims struct {
	jwt.StandardClaims
	Name       string `json:"name,omitempty"`
	IsAdmin    bool   `json:"is_admin,omitempty"`
	IsAgent    bool   `json:"is_agent,omitempty"`
	IsEmployee bool   `json:"is_employee,omitempty"`
}

// Viewer returns the staff member the claims were issued for.
func (c Claims) Viewer() core.Viewer {
	return core.Viewer{
		ID:         c.Subject,
		Name:       c.Name,
		IsAdmin:    c.IsAdmin,
		IsAgent:    c.IsAgent,
		IsEmployee: c.IsEmployee,
	}
}

func GetViewerClaims(conf *core.Config, v core.Viewer) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   v.ID,
			Audience:  audience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:       v.Name,
		IsAdmin:    v.IsAdmin,
		IsAgent:    v.IsAgent,
		IsEmployee: v.IsEmployee,
	}
}

func jwtConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// GenerateToken generates a signed JWT token string representing the viewer Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	jc := jwtConfig(conf)
	token := jwt.NewWithClaims(jwt.GetSigningMethod(jc.SigningMethod), claims)

	ss, err := token.SignedString(jc.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextViewer(ctx echo.Context) (core.Viewer, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Viewer{}, err
	}
	return claims.Viewer(), nil
}

func adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if claims.IsAdmin {
			return next(ctx)
		}
		return errHttpForbidden
	}
}
