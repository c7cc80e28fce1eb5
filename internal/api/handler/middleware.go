package handler

import (
	"context"
	"errors"
	"strings"

	"boltfarm/internal/models"
	"boltfarm/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthAccount ctxKey = "AUTH_ACCOUNT"

// Authn attaches the authenticated account to the request context. It
// does NOT terminate unauthenticated requests; handlers resolve the
// account and reject there.
func Authn(verifier interface {
	ValidateInitData(dataStr string) (*models.AccountFromAuth, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, "Bearer")
			if len(parts) != 2 {
				return next(c)
			}

			token := strings.TrimSpace(parts[1])
			if len(token) == 0 {
				return next(c)
			}

			account, err := verifier.ValidateInitData(token)
			if err != nil {
				// client error, but no details leak
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthAccount, account)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func ResolveValidAccount(ctx context.Context, container *do.Injector) (*models.Account, error) {
	auth, ok := ctx.Value(ctxKeyAuthAccount).(*models.AccountFromAuth)
	if !ok {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}

	serviceAccount, err := do.Invoke[*services.ServiceAccount](container)
	if err != nil {
		return nil, err
	}

	return serviceAccount.FindOrCreateAccount(ctx, auth)
}
