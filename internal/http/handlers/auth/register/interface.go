package register

import (
	"context"
)

type Service interface {
	Register(ctx context.Context, email, password string) (string, error)
}
