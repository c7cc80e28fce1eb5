package handler

import (
	"boltfarm/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupLeaderboard struct {
	container *do.Injector
}

func (gr *groupLeaderboard) GetMinerLeaderboard(c echo.Context) error {
	ctx := c.Request().Context()

	// the viewer slot is optional; anonymous requests still see the board
	account, _ := ResolveValidAccount(ctx, gr.container)

	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	response, err := serviceLeaderboard.GetMinerLeaderboard(ctx, account)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, response, nil)
}
