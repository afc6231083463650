package handler

import (
	"net/http"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"

	"snapclash/internal/services"
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
		return c.String(http.StatusOK, "📸")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		pipeline, err := do.Invoke[*services.Pipeline](cfg.Container)
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

		routesAPIv1Pipeline := routesAPIv1.Group("/pipeline")
		routesAPIv1Pipeline.Use(AuthnPipeline(pipeline))
		{
			p := groupPipeline{cfg.Container}
			routesAPIv1Pipeline.POST("/challenge/:id/score", p.Score)
			routesAPIv1Pipeline.POST("/challenge/:id/submission", p.Submission)
			routesAPIv1Pipeline.POST("/challenge/:id/resolve", p.Resolve)
		}

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated requests.

		u := groupUser{cfg.Container}
		routesAPIv1.GET("/user/me", u.Me)

		ch := groupChallenge{cfg.Container}
		routesAPIv1.POST("/challenges", ch.Create)
		routesAPIv1.GET("/challenges/trending", ch.Trending)
		routesAPIv1.GET("/challenges/mine", ch.Mine)
		routesAPIv1.PATCH("/challenges/:id", ch.Update)
		routesAPIv1.DELETE("/challenges/:id", ch.Delete)
		routesAPIv1.GET("/challenge/:code", ch.Show)

		p := groupParticipation{cfg.Container}
		routesAPIv1.POST("/challenge/:code/accept", p.Accept)
		routesAPIv1.POST("/challenge/:code/decline", p.Decline)

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/challenge/:code/leaderboard", l.ByCode)
	}

	return r, nil
}
