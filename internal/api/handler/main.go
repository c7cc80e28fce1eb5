package handler

import (
	"net/http"

	"boltfarm/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "⚡")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		bot, err := do.Invoke[*services.Bot](cfg.Container)
		if err != nil {
			return nil, err
		}
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)

		// /account/me authenticates with raw telegram init data and
		// hands back a JWT for the rest of the API.
		routesAPIv1Me := routesAPIv1.Group("/account/me")
		routesAPIv1Me.Use(Authn(bot))
		{
			a := groupAccount{cfg.Container}
			routesAPIv1Me.GET("", a.Me)
		}

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated requests.
		routesAPIv1.GET("", Hello)

		routesAPIv1Account := routesAPIv1.Group("/account")
		{
			a := groupAccount{cfg.Container}
			routesAPIv1Account.POST("/connect/ton", a.ConnectTonWallet)
			routesAPIv1Account.POST("/upgrade/:kind", a.Upgrade)
			routesAPIv1Account.GET("/upgrades", a.GetUpgradeHistory)
		}

		routesAPIv1Mining := routesAPIv1.Group("/mining")
		{
			m := groupMining{cfg.Container}
			routesAPIv1Mining.POST("/start", m.StartSession)
			routesAPIv1Mining.GET("/progress", m.GetProgress)
			routesAPIv1Mining.POST("/complete", m.CompleteSession)
			routesAPIv1Mining.GET("/history", m.GetSessionHistory)
		}

		routesAPIv1Servers := routesAPIv1.Group("/servers")
		{
			s := groupAsset{cfg.Container}
			routesAPIv1Servers.GET("/catalog", s.GetCatalog)
			routesAPIv1Servers.GET("", s.GetAccountAssets)
			routesAPIv1Servers.POST("/purchase/:slug", s.Purchase)
			routesAPIv1Servers.POST("/:id/deactivate", s.Deactivate)
			routesAPIv1Servers.POST("/claim", s.ClaimAll)
			routesAPIv1Servers.GET("/sweep/report", s.GetSweepReport)
		}

		cr := groupCrate{cfg.Container}
		routesAPIv1.GET("/crate", cr.GetCrate)
		routesAPIv1.POST("/crate/open", cr.OpenCrate)

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard/miners", l.GetMinerLeaderboard)
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
