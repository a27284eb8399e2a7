package server

import (
	"shop-admin/internal/config"
	"shop-admin/internal/database"
	"shop-admin/internal/handlers"
	"shop-admin/internal/logger"
	"shop-admin/internal/metrics"
	"shop-admin/internal/middleware"
	"shop-admin/internal/models"
	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   redis.Cmdable
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.SetupValidator()

	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(logger.GinMiddleware(log))
	r.Use(logger.Recovery(log))
	r.Use(m.Middleware())

	recorder := database.NewAuditRecorder(d.DB, log, database.WithFailureHook(m.AuditFailed))

	jwtSvc := service.NewJWTService(d.Config.JWT)
	authH := handlers.NewAuthHandler(service.NewAuthService(d.DB, jwtSvc, service.NewRedisTokenBlacklist(d.Redis)))
	userH := handlers.NewUserHandler(service.NewUserService(d.DB, recorder))
	roleH := handlers.NewRoleHandler(service.NewRoleService(d.DB, recorder))
	permH := handlers.NewPermissionHandler(service.NewPermissionService(d.DB))
	clientH := handlers.NewClientHandler(service.NewClientService(d.DB, recorder))
	deptH := handlers.NewNamedHandler[models.Department](service.NewDepartmentService(d.DB))
	cityH := handlers.NewCityHandler(service.NewCityService(d.DB))
	brandH := handlers.NewNamedHandler[models.Brand](service.NewBrandService(d.DB))
	categoryH := handlers.NewNamedHandler[models.Category](service.NewCategoryService(d.DB))
	catalogH := handlers.NewCatalogHandler(service.NewCatalogService(d.DB))
	itemH := handlers.NewItemHandler(service.NewItemService(d.DB))
	cartH := handlers.NewCartHandler(service.NewCartService(d.DB))
	auditH := handlers.NewAuditHandler(service.NewAuditLogService(d.DB))
	healthH := handlers.NewHealthHandler(d.DB, d.Redis)

	r.GET("/health", healthH.Check)
	r.GET("/metrics", m.Handler())

	api := r.Group("/api/v1")

	// public
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.Refresh)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(jwtSvc), middleware.InjectUser(d.DB))
	{
		authed.POST("/auth/logout", authH.Logout)
		authed.GET("/auth/me", authH.Me)

		authed.GET("/cart", cartH.Get)
		authed.POST("/cart/items", cartH.AddItem)
		authed.PATCH("/cart/items/:item_id", cartH.UpdateItem)
		authed.DELETE("/cart/items/:item_id", cartH.RemoveItem)

		authed.GET("/catalog", catalogH.List)
		authed.GET("/catalog/:id", catalogH.Get)
		authed.GET("/items", itemH.List)
		authed.GET("/items/:id", itemH.Get)
		authed.GET("/brands", brandH.List)
		authed.GET("/brands/:id", brandH.Get)
		authed.GET("/categories", categoryH.List)
		authed.GET("/categories/:id", categoryH.Get)
	}

	staff := authed.Group("")
	staff.Use(middleware.RequireStaff())
	{
		staff.GET("/users", userH.List)
		staff.POST("/users", userH.Create)
		staff.GET("/users/:id", userH.Get)
		staff.PUT("/users/:id", userH.Update)
		staff.DELETE("/users/:id", userH.Delete)

		staff.GET("/roles", roleH.List)
		staff.POST("/roles", roleH.Create)
		staff.GET("/roles/:id", roleH.Get)
		staff.PUT("/roles/:id", roleH.Update)
		staff.DELETE("/roles/:id", roleH.Delete)

		staff.GET("/permissions", permH.List)
		staff.GET("/permissions/:id", permH.Get)

		staff.GET("/clients", clientH.List)
		staff.POST("/clients", clientH.Create)
		staff.GET("/clients/:id", clientH.Get)
		staff.PUT("/clients/:id", clientH.Update)
		staff.DELETE("/clients/:id", clientH.Delete)

		staff.GET("/departments", deptH.List)
		staff.POST("/departments", deptH.Create)
		staff.GET("/departments/:id", deptH.Get)
		staff.PUT("/departments/:id", deptH.Update)
		staff.DELETE("/departments/:id", deptH.Delete)

		staff.GET("/cities", cityH.List)
		staff.POST("/cities", cityH.Create)
		staff.GET("/cities/:id", cityH.Get)
		staff.PUT("/cities/:id", cityH.Update)
		staff.DELETE("/cities/:id", cityH.Delete)

		// catalog writes; reads are registered above
		staff.POST("/brands", brandH.Create)
		staff.PUT("/brands/:id", brandH.Update)
		staff.DELETE("/brands/:id", brandH.Delete)
		staff.POST("/categories", categoryH.Create)
		staff.PUT("/categories/:id", categoryH.Update)
		staff.DELETE("/categories/:id", categoryH.Delete)
		staff.POST("/catalog", catalogH.Create)
		staff.PUT("/catalog/:id", catalogH.Update)
		staff.DELETE("/catalog/:id", catalogH.Delete)
		staff.POST("/items", itemH.Create)
		staff.PUT("/items/:id", itemH.Update)
		staff.DELETE("/items/:id", itemH.Delete)

		staff.GET("/audit-logs", auditH.List)
		staff.GET("/audit-logs/:id", auditH.Get)
	}

	return r
}
