package api

import (
	"Slipboard/internal/api/middleware"
	"Slipboard/internal/pkg/logger"
	"Slipboard/internal/pkg/metrics"
	"Slipboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, m *metrics.SlipMetrics) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS & Metrics
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware(m))
	logger.SetupGin(r)

	r.GET("/metrics", gin.WrapH(m.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			response.Success(c, "pong")
		})

		// 鉴权走 token 查询参数
		apiGroup.GET("/live", group.WSHandler.Connect)

		slipGroup := apiGroup.Group("/slips")
		{
			authOptGroup := slipGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/feed", group.SlipHandler.GetFeed)
				authOptGroup.GET("/detail/:slip_id", group.SlipHandler.GetSlip)
				authOptGroup.GET("/list/:user_id", group.SlipHandler.GetUserSlips)
			}

			authGroup := slipGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/scan", group.SlipHandler.ScanSlip)
				authGroup.POST("/import", group.SlipHandler.ImportSlip)
				authGroup.POST("/generate", group.SlipHandler.GenerateSlip)
				authGroup.DELETE("/:slip_id", group.SlipHandler.DeleteSlip)
			}
		}

		slipActionGroup := apiGroup.Group("/slip/action")
		{
			slipActionGroup.GET("/comments/:slip_id", group.SlipActionHandler.GetComments)

			authActionGroup := slipActionGroup.Group("")
			authActionGroup.Use(middleware.AuthMiddleware())
			{
				authActionGroup.POST("/likes/:slip_id", group.SlipActionHandler.LikeSlip)
				authActionGroup.POST("/saves/:slip_id", group.SlipActionHandler.SaveSlip)
				authActionGroup.GET("/state/:slip_id", group.SlipActionHandler.GetSlipActionState)

				authActionGroup.POST("/comments", group.SlipActionHandler.CreateComment)

				authActionGroup.GET("/liked", group.SlipActionHandler.GetLikedSlips)
				authActionGroup.GET("/saved", group.SlipActionHandler.GetSavedSlips)
			}
		}

		userFollowGroup := apiGroup.Group("/user-relation")
		{
			userFollowGroup.GET("/:user_id/counts", middleware.AuthOptionalMiddleware(), group.UserFollowHandler.GetFollowCounts)

			authGroup := userFollowGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/followers", group.UserFollowHandler.GetUserFollowers)
				authGroup.GET("/followings", group.UserFollowHandler.GetUserFollowings)
				authGroup.POST("/follow/:following_id", group.UserFollowHandler.Follow)
			}
		}

		sysbox := apiGroup.Group("/sysbox")
		sysbox.Use(middleware.AuthMiddleware())
		{
			sysbox.GET("/list", group.SysBoxHandler.GetNotificationList)
			sysbox.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysbox.POST("/read", group.SysBoxHandler.MarkRead)
			sysbox.POST("/read/all", group.SysBoxHandler.MarkAllRead)
		}
	}

	return r
}
