package http

import (
	"net/http"

	"ReviewHub/internal/config"
	jwtMiddleware "ReviewHub/internal/middleware/jwt"
	metricsMiddleware "ReviewHub/internal/middleware/metrics"
	"ReviewHub/internal/middleware/servicetoken"
	"ReviewHub/internal/modules/notification/application/service"
	notifHandler "ReviewHub/internal/modules/notification/interface/http"
	"ReviewHub/pkg/metrics"
	"ReviewHub/pkg/ssl"
	"ReviewHub/pkg/ws"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services 路由依赖的应用服务，由 main 组装后注入
type Services struct {
	Preference service.PreferenceService
	Pause      service.PauseService
	Dispatch   service.DispatchService
	Reminder   service.ReminderService
	Hub        *ws.Hub
}

func NewRouter(conf *config.Config, svcs Services) *gin.Engine {
	metrics.Init()

	GE := gin.New()
	GE.Use(gin.Recovery())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	GE.Use(metricsMiddleware.Gin())
	if conf.MainConfig.EnableTLS {
		GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}

	prefH := notifHandler.NewPreferenceHandler(svcs.Preference)
	pauseH := notifHandler.NewPauseHandler(svcs.Pause)
	notifH := notifHandler.NewNotificationHandler(svcs.Dispatch)
	reminderH := notifHandler.NewReminderHandler(svcs.Reminder)
	wsH := notifHandler.NewWsHandler(svcs.Hub)

	GE.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	GE.GET("/metrics", gin.WrapH(promhttp.Handler()))
	GE.GET("/wss", wsH.Connect)

	authed := GE.Group("/")
	authed.Use(jwtMiddleware.Auth())

	authed.GET("/notification/preferences", prefH.Get)
	authed.PUT("/notification/preferences", prefH.Update)
	authed.POST("/notification/preferences/reset", prefH.Reset)
	authed.POST("/notification/preferences/check", prefH.Check)

	authed.GET("/notification/pause", pauseH.Status)
	authed.POST("/notification/pause", pauseH.Pause)
	authed.DELETE("/notification/pause", pauseH.Resume)

	authed.POST("/notification/submit", notifH.Submit)
	authed.GET("/notification/list", notifH.List)
	authed.GET("/notification/unread", notifH.UnreadCount)
	authed.POST("/notification/read", notifH.MarkRead)

	authed.POST("/reminder", reminderH.Create)
	authed.GET("/reminder/list", reminderH.List)
	authed.GET("/reminder/:id", reminderH.Get)
	authed.DELETE("/reminder/:id", reminderH.Delete)

	// 服务间调用，可为任意用户投递
	internalGroup := GE.Group("/internal")
	internalGroup.Use(servicetoken.Auth(conf.MainConfig.ServiceToken))
	internalGroup.POST("/notification/submit", notifH.SubmitForUser)

	return GE
}
