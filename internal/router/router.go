package router

import (
	"github.com/Flinmt/pinanca/internal/config"
	"github.com/Flinmt/pinanca/internal/handler"
	"github.com/Flinmt/pinanca/internal/middleware"
	"github.com/Flinmt/pinanca/internal/scheduler"
	"github.com/Flinmt/pinanca/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and mounts the API.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)
	protected.POST("/auth/logout", authHandler.Logout)

	categoryHandler := handler.NewCategoryHandler(db)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	originHandler := handler.NewOriginHandler(db)
	protected.POST("/origins", originHandler.Create)
	protected.GET("/origins", originHandler.List)
	protected.PUT("/origins/:id", originHandler.Update)
	protected.DELETE("/origins/:id", originHandler.Delete)

	responsibleHandler := handler.NewResponsibleHandler(db)
	protected.POST("/responsibles", responsibleHandler.Create)
	protected.GET("/responsibles", responsibleHandler.List)
	protected.PUT("/responsibles/:id", responsibleHandler.Update)
	protected.DELETE("/responsibles/:id", responsibleHandler.Delete)

	policy := scheduler.FullAmount
	if cfg.App.InstallmentSplit {
		policy = scheduler.SplitEvenly
	}
	debtService := service.NewDebtService(db, policy)

	debtHandler := handler.NewDebtHandler(db, debtService)
	protected.POST("/debts", debtHandler.Create)
	protected.GET("/debts", debtHandler.List)
	protected.GET("/debts/:id", debtHandler.Get)
	protected.PUT("/debts/:id", debtHandler.Update)
	protected.DELETE("/debts/:id", debtHandler.Delete)
	protected.POST("/debts/bulk-save", debtHandler.BulkSave)
	protected.POST("/debts/bulk-delete", debtHandler.BulkDelete)
	protected.GET("/debts/:id/installments", debtHandler.ListInstallments)

	installmentHandler := handler.NewInstallmentHandler(db, debtService)
	protected.PUT("/installments/:id", installmentHandler.SetPaid)
	protected.POST("/installments/:id/payment", installmentHandler.RecordPayment)

	transactionHandler := handler.NewTransactionHandler(db)
	protected.POST("/transactions", transactionHandler.Create)
	protected.GET("/transactions", transactionHandler.List)
	protected.GET("/transactions/:id", transactionHandler.Get)
	protected.PUT("/transactions/:id", transactionHandler.Update)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
