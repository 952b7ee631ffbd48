package container

import (
	"database/sql"
	"log"

	"giftforms/internal/analytics"
	auditLogRepo "giftforms/internal/auditlog"
	"giftforms/internal/forms"
	"giftforms/internal/integrations/googlesheets"
	"giftforms/internal/items"
	"giftforms/internal/repository"
	"giftforms/internal/responses"
	"giftforms/internal/users"
	"giftforms/pkg/auditlog"
	"giftforms/pkg/security"
)

type Container struct {
	Repository       *repository.Repository
	AuditLog         *auditlog.Auditlog
	LoginHandler     *security.LoginHandler
	FormHandler      *forms.FormHandler
	ItemHandler      *items.ItemHandler
	ResponseHandler  *responses.ResponseHandler
	AnalyticsHandler *analytics.AnalyticsHandler
	SheetsHandler    *googlesheets.GoogleSheetsHandler
	UserHandler      *users.UsersHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	auditLogRepository := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditLogRepository)

	userRepo := users.NewRepository(repo)
	userHandler := users.NewHandler(userRepo)
	loginHandler := security.NewLoginHandler(repo)

	formRepo := forms.NewRepository(repo)
	itemRepo := items.NewRepository(repo)
	itemHandler := items.NewItemHandler(itemRepo, formRepo, auditLog, auditLogRepository)
	formHandler := forms.NewHandler(formRepo, itemRepo, auditLog)

	responseRepo := responses.NewResponseRepository(repo)
	stockMutator := responses.NewStockMutator(repo)
	responseService := responses.NewResponseService(repo, responseRepo, itemRepo, formRepo, stockMutator)
	responseHandler := responses.NewHandler(responseService, formRepo, auditLog)

	analyticsRepo := analytics.NewRepository(repo)
	analyticsHandler := analytics.NewHandler(analyticsRepo, formRepo)

	// Sheets export is optional, the app runs without Google credentials.
	sheetsHandler, err := googlesheets.NewGoogleSheetsHandler(formRepo, responseService)
	if err != nil {
		log.Printf("Google Sheets export disabled: %v", err)
		sheetsHandler = nil
	}

	return &Container{
		Repository:       repo,
		AuditLog:         auditLog,
		LoginHandler:     loginHandler,
		FormHandler:      formHandler,
		ItemHandler:      itemHandler,
		ResponseHandler:  responseHandler,
		AnalyticsHandler: analyticsHandler,
		SheetsHandler:    sheetsHandler,
		UserHandler:      userHandler,
	}
}
