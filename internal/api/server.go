package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/nurbek2810/stockchat-api/internal/api/handler/v1"
	"github.com/nurbek2810/stockchat-api/internal/api/middleware"
	"github.com/nurbek2810/stockchat-api/internal/config"
	"github.com/nurbek2810/stockchat-api/internal/notify"
	"github.com/nurbek2810/stockchat-api/internal/repository"
	"github.com/nurbek2810/stockchat-api/internal/repository/dao"
	"github.com/nurbek2810/stockchat-api/internal/resolve"
	"github.com/nurbek2810/stockchat-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	if err := dao.InitTables(db); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	loc, err := time.LoadLocation(conf.API.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation -> %w", err)
	}

	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	ledgerDAO := dao.NewLedgerDAO(db)
	repo := repository.NewLedgerRepository(ledgerDAO)
	resolver := resolve.NewResolver(repo, conf)
	notifier := notify.NewNotifier(notify.NewLogSender(), conf.Notify)

	messageHandler := v1.NewMessageHandler(service.NewIngestService(repo, resolver, notifier, conf, loc))
	reportHandler := v1.NewReportHandler(service.NewReportService(repo, loc))
	adminHandler := v1.NewAdminHandler(service.NewAdminService(repo))
	s.MountHandlers(messageHandler, reportHandler, adminHandler)

	return s, nil
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(messageHandler *v1.MessageHandler, reportHandler *v1.ReportHandler, adminHandler *v1.AdminHandler) {
	const basePath = "/api/v1"

	messages := s.Router.Group(basePath)
	{
		messages.POST("/messages", messageHandler.HandleInboundMessage)
	}

	reports := s.Router.Group(basePath)
	{
		reports.GET("/reports/sales", reportHandler.HandleSalesReport)
		reports.GET("/reports/stale", reportHandler.HandleStaleReport)
		reports.GET("/networks/:network/stock", reportHandler.HandleStockTable)
	}

	admin := s.Router.Group(basePath)
	{
		admin.POST("/networks", adminHandler.HandleEnsureNetwork)
		admin.POST("/plans", adminHandler.HandleSetPlan)
		admin.POST("/products", adminHandler.HandleCreateProduct)
		admin.POST("/products/:productID/aliases", adminHandler.HandleAddAlias)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
}
