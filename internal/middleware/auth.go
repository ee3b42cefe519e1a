package middleware

import (
	"net/http"
	"strings"

	"orcamento/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ClaimsKey = "claims"

// Roles carried in the "papel" claim.
const (
	PapelLeitor        = "leitor"
	PapelAnalista      = "analista"
	PapelAprovador     = "aprovador"
	PapelAdministrador = "administrador"
)

// JWTClaims are the claims expected in the bearer token. Tokens are issued
// by the identity provider; this service only verifies them.
type JWTClaims struct {
	UsuarioID string `json:"usuario_id"`
	Nome      string `json:"nome"`
	Papel     string `json:"papel"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticação requerida"))
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido ou expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose papel is not in the allowed list.
func RequireRole(papeis ...string) gin.HandlerFunc {
	permitidos := make(map[string]bool, len(papeis))
	for _, p := range papeis {
		permitidos[p] = true
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !permitidos[claims.Papel] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permissões insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims returns the verified claims, or nil outside JWTAuth.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
