// Package router arma el *gin.Engine con todas las rutas del servicio.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"poemas-backend/chat"
	"poemas-backend/config"
	"poemas-backend/metrics"
	"poemas-backend/middleware"
	"poemas-backend/pages"
	"poemas-backend/subscriptions"
)

type Deps struct {
	Config  *config.Config
	Billing subscriptions.Billing
	AI      chat.PoemGenerator
	Metrics *metrics.Metrics
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		// outside Recovery, so recovered panics are counted as 500s
		d.Metrics.Middleware(),
		gin.Recovery(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", d.Metrics.Handler())

	pages.NewHandler(d.Config.PayPal.ClientID, d.Config.PayPal.PlanID).RegisterRoutes(r)
	chat.NewHandler(d.AI).RegisterRoutes(r)
	subscriptions.NewHandler(d.Billing, d.Config.MaskedClientID()).RegisterRoutes(r)

	return r
}
