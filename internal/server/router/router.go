package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. insightH and
// notifyH may be nil when the AI provider or the notifier is not configured;
// their routes are then not mounted.
func New(breedingH *handlers.BreedingHandler, manejoH *handlers.ManejoHandler, insightH *handlers.InsightHandler, notifyH *handlers.NotifyHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")

	plans := api.Group("/plans")
	plans.GET("", breedingH.ListPlans)
	plans.POST("", breedingH.CreatePlan)
	plans.GET("/available-ewes", breedingH.AvailableEwes)
	plans.GET("/:id", breedingH.GetPlan)
	plans.DELETE("/:id", breedingH.DeletePlan)
	plans.PUT("/:id/status", breedingH.UpdatePlanStatus)
	plans.POST("/:id/ewes", breedingH.AddEwe)
	plans.DELETE("/:id/ewes/:eweId", breedingH.RemoveEwe)
	plans.POST("/:id/ewes/:eweId/move", breedingH.MoveEwe)
	plans.POST("/:id/ewes/:eweId/heat", breedingH.ConfirmHeat)
	plans.POST("/:id/ewes/:eweId/ram", breedingH.AssignRam)
	plans.POST("/:id/ewes/:eweId/result", breedingH.RecordCycleResult)
	plans.POST("/:id/ewes/:eweId/discard", breedingH.DiscardEwe)

	manejos := api.Group("/manejos")
	manejos.GET("", manejoH.List)
	manejos.POST("", manejoH.Create)
	manejos.POST("/validate-date", manejoH.ValidateDate)
	manejos.GET("/:id", manejoH.Get)
	manejos.PUT("/:id", manejoH.Update)
	manejos.DELETE("/:id", manejoH.Delete)
	manejos.POST("/:id/complete", manejoH.Complete)
	manejos.POST("/:id/cancel", manejoH.Cancel)

	api.GET("/calendar/:year", manejoH.CalendarYear)
	api.GET("/agenda", manejoH.Agenda)

	if insightH != nil {
		api.GET("/sheep/:id/insight", insightH.SheepAdvisory)
		api.GET("/flock/digest", insightH.FlockDigest)
	}

	if notifyH != nil {
		api.POST("/notify", notifyH.SendMessage)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
