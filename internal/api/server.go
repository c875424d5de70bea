package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/campsite-api/docs"
	v1 "github.com/vietanh2810/campsite-api/internal/api/handler/v1"
	"github.com/vietanh2810/campsite-api/internal/api/middleware"
	"github.com/vietanh2810/campsite-api/internal/config"
	"github.com/vietanh2810/campsite-api/internal/domain"
	"github.com/vietanh2810/campsite-api/internal/repository"
	"github.com/vietanh2810/campsite-api/internal/repository/dao"
	"github.com/vietanh2810/campsite-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

// Dependencies are the connections opened by the caller. A nil Cache computes
// every calendar from the database.
type Dependencies struct {
	DB       *gorm.DB
	Cache    service.CalendarCache
	Notifier service.Notifier
	Billing  service.BillingRenderer
}

type handlers struct {
	reserve      *v1.ReserveHandler
	availability *v1.AvailabilityHandler
	catalog      *v1.CatalogHandler
	discount     *v1.DiscountHandler
	statistics   *v1.StatisticsHandler
	user         *v1.UserHandler
}

func NewServer(conf *config.AppConfig, deps Dependencies) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(deps))

	return s
}

// now is evaluated per call so a reloaded timezone takes effect immediately.
func (s *Server) now() time.Time {
	return time.Now().In(s.Config.Booking.Location())
}

func (s *Server) initHandlers(deps Dependencies) handlers {
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(deps.DB))
	reserveRepo := repository.NewReserveRepository(dao.NewReserveDAO(deps.DB))
	discountRepo := repository.NewDiscountRepository(dao.NewDiscountDAO(deps.DB))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(deps.DB))

	availabilitySvc := service.NewAvailabilityService(catalogRepo, reserveRepo, deps.Cache, s.now)
	reserveSvc := service.NewReserveService(reserveRepo, userRepo, service.Collaborators{
		Notifier:      deps.Notifier,
		Billing:       deps.Billing,
		Calendar:      availabilitySvc,
		NotifyTimeout: s.Config.Booking.Timeout,
	}, s.now)

	return handlers{
		reserve:      v1.NewReserveHandler(reserveSvc),
		availability: v1.NewAvailabilityHandler(availabilitySvc),
		catalog:      v1.NewCatalogHandler(service.NewCatalogService(catalogRepo, availabilitySvc)),
		discount:     v1.NewDiscountHandler(service.NewDiscountService(discountRepo, s.now)),
		statistics:   v1.NewStatisticsHandler(service.NewStatisticsService(reserveRepo, s.now)),
		user:         v1.NewUserHandler(service.NewUserService(userRepo, s.Config.API.JWTSigningKey)),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"
	auth := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.GET("/health", v1.HandleHealthcheck)
		public.GET("/tents", h.catalog.HandleListTents(true))
		public.GET("/tents/available", h.availability.HandleAvailableTents)
		public.GET("/tents/:tentID", h.catalog.HandleGetTent)
		public.GET("/products", h.catalog.HandleListProducts(true))
		public.GET("/products/:productID", h.catalog.HandleGetProduct)
		public.GET("/experiences", h.catalog.HandleListExperiences(true))
		public.GET("/experiences/:experienceID", h.catalog.HandleGetExperience)
		public.GET("/calendar", h.availability.HandleCalendar)
		public.GET("/promotions", h.discount.HandleListPromotions)
		public.POST("/discounts/validate", h.discount.HandleValidateDiscount)
	}

	booking := s.Router.Group(basePath, auth.OptionalJWT())
	{
		booking.POST("/reserves", h.reserve.HandleCreateReserve)
	}

	users := s.Router.Group(basePath, auth.VerifyJWT())
	{
		users.GET("/users/me", h.user.HandleGetMe)
	}

	admin := s.Router.Group(basePath+"/admin", auth.VerifyJWT(), middleware.RequireRole(domain.RoleAdmin))
	{
		admin.GET("/tents", h.catalog.HandleListTents(false))
		admin.POST("/tents", h.catalog.HandleCreateTent)
		admin.GET("/tents/availability", h.availability.HandleAdminAvailability)
		admin.PATCH("/tents/:id/status", h.catalog.HandleSetStatus(domain.EntityTypeTent))
		admin.GET("/products", h.catalog.HandleListProducts(false))
		admin.POST("/products", h.catalog.HandleCreateProduct)
		admin.PATCH("/products/:id/status", h.catalog.HandleSetStatus(domain.EntityTypeProduct))
		admin.GET("/experiences", h.catalog.HandleListExperiences(false))
		admin.POST("/experiences", h.catalog.HandleCreateExperience)
		admin.PATCH("/experiences/:id/status", h.catalog.HandleSetStatus(domain.EntityTypeExperience))

		admin.GET("/discounts", h.discount.HandleListCodes)
		admin.POST("/discounts", h.discount.HandleCreateCode)
		admin.PATCH("/discounts/:codeID/status", h.discount.HandleSetCodeStatus)
		admin.POST("/promotions", h.discount.HandleCreatePromotion)

		admin.GET("/reserves", h.reserve.HandleListReserves)
		admin.GET("/reserves/:reserveID", h.reserve.HandleGetReserve)
		admin.PUT("/reserves/:reserveID", h.reserve.HandleUpdateReserve)
		admin.POST("/reserves/:reserveID/confirm", h.reserve.HandleConfirm)
		admin.POST("/reserves/:reserveID/cancel", h.reserve.HandleCancel)
		admin.POST("/reserves/:reserveID/complete", h.reserve.HandleComplete)
		admin.PATCH("/reserves/:reserveID/payment", h.reserve.HandleUpdatePayment)
		admin.GET("/reserves/:reserveID/billing", h.reserve.HandleBillingDocument)
		admin.POST("/reserves/:reserveID/products", h.reserve.HandleAddProduct)
		admin.DELETE("/reserves/:reserveID/products/:lineID", h.reserve.HandleDeleteProduct)
		admin.POST("/reserves/:reserveID/experiences", h.reserve.HandleAddExperience)
		admin.DELETE("/reserves/:reserveID/experiences/:lineID", h.reserve.HandleDeleteExperience)

		admin.GET("/statistics", h.statistics.HandleStatistics)

		admin.POST("/users", h.user.HandleCreateUser)
		admin.POST("/users/:userID/token", h.user.HandleIssueToken)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Campsite reservation API"
	docs.SwaggerInfo.Description = "Availability, booking and confirmation of campsite reserves."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
