package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/docs"
	v1 "github.com/yizeng/gab/gin/gorm/raffle-draw/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/config"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

// NewServer mounts the HTTP API. live is shared with the draw service, which
// publishes outcomes through it.
func NewServer(conf *config.AppConfig, raffles v1.RaffleService, draws v1.DrawService, live *v1.LiveHandler) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()
	s.MountHandlers(v1.NewRaffleHandler(raffles), v1.NewDrawHandler(draws), live)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(raffleHandler *v1.RaffleHandler, drawHandler *v1.DrawHandler, liveHandler *v1.LiveHandler) {
	const basePath = "/api/v1"

	raffles := s.Router.Group(basePath)
	{
		raffles.GET("/raffles/:raffleID", raffleHandler.HandleGetRaffle)
		raffles.GET("/raffles/:raffleID/winners", raffleHandler.HandleGetWinners)
		raffles.PUT("/raffles/:raffleID/tickets/:ticketID/payment", raffleHandler.HandleConfirmPayment)
		raffles.GET("/raffles/:raffleID/live", liveHandler.HandleLive)
	}

	draws := s.Router.Group(basePath)
	{
		draws.POST("/draws/run", drawHandler.HandleRunDraws)
		draws.POST("/raffles/:raffleID/draw", drawHandler.HandleDrawRaffle)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Raffle draw API"
	docs.SwaggerInfo.Description = "Scheduled raffle draws, winners and ticket payments."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
