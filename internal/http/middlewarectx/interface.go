package middlewarectx

import (
	"github.com/trakio/trakio/internal/lib/jwt"
)

// Service описывает интерфейс сервиса для проверки JWT токена.
type Service interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}
