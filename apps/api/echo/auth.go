package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
)

// appJWTConfig is the default JWT auth middleware config.
var appJWTConfig = middleware.JWTConfig{
	SigningKey:    []byte(core.Conf.SecretKey),
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "userToken",
	Claims:        new(Claims),
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email   string `json:"email,omitempty"`
	Nombre  string `json:"nombre,omitempty"`
	Rol     string `json:"rol,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
	CanEdit bool   `json:"can_edit,omitempty"`
}

func GetUserClaims(usr adminuser.AdminUser) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   usr.UserID,
			Audience:  "Dashboard",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:   usr.Email,
		Nombre:  usr.Nombre,
		Rol:     usr.Rol,
		IsAdmin: usr.IsAdmin(),
		CanEdit: usr.CanEdit(),
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
