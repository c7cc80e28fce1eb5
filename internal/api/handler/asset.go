package handler

import (
	"strconv"

	"boltfarm/internal/models"
	"boltfarm/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAsset struct {
	container *do.Injector
}

func (gr *groupAsset) GetCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	type catalogEntry struct {
		models.CatalogServer
		Stock int `json:"stock"`
	}

	entries := make([]catalogEntry, 0, len(models.ServerCatalog))
	for _, server := range models.ServerCatalog {
		stock, _ := serviceConfig.GetIntConfig(ctx, server.StockConfigKey(), server.InitialStock)
		entries = append(entries, catalogEntry{server, stock})
	}

	return httpx.RestAbort(c, entries, nil)
}

func (gr *groupAsset) GetAccountAssets(c echo.Context) error {
	ctx := c.Request().Context()

	account, err := ResolveValidAccount(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	assets, err := serviceAsset.GetAccountAssets(ctx, account.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, assets, nil)
}

func (gr *groupAsset) Purchase(c echo.Context) error {
	ctx := c.Request().Context()

	account, err := ResolveValidAccount(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	asset, err := serviceAsset.PurchaseAsset(ctx, account, c.Param("slug"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, asset, nil)
}

func (gr *groupAsset) Deactivate(c echo.Context) error {
	ctx := c.Request().Context()

	account, err := ResolveValidAccount(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	assetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceAsset.DeactivateAsset(ctx, account, assetID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, "success", nil)
}

func (gr *groupAsset) ClaimAll(c echo.Context) error {
	ctx := c.Request().Context()

	account, err := ResolveValidAccount(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceAsset, err := do.Invoke[*services.ServiceAsset](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceAsset.ClaimAll(ctx, account)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupAsset) GetSweepReport(c echo.Context) error {
	ctx := c.Request().Context()

	serviceSweep, err := do.Invoke[*services.ServiceSweep](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	report, err := serviceSweep.GetLastSweepReport(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.NotExist))
	}

	return httpx.RestAbort(c, report, nil)
}
