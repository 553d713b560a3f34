package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/config"
	"github.com/yeremiapane/restaurant-site/controllers"
	"github.com/yeremiapane/restaurant-site/middlewares"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/realtime"
	"github.com/yeremiapane/restaurant-site/reservation"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/utils"
	"github.com/yeremiapane/restaurant-site/web"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs; main builds it once at startup.
type Deps struct {
	DB           *gorm.DB
	Config       *config.Config
	Hub          *realtime.Hub
	Reservations *services.ReservationService
	Clock        reservation.Clock
}

func SetupRouter(deps Deps) (*gin.Engine, error) {
	if deps.DB == nil || deps.Config == nil {
		return nil, errors.New("router: db and config are required")
	}
	if deps.Hub == nil {
		deps.Hub = realtime.NewHub()
	}
	if deps.Clock == nil {
		deps.Clock = reservation.SystemClock{}
	}
	if deps.Reservations == nil {
		deps.Reservations = services.NewReservationService(deps.DB, deps.Clock, services.HubPublisher{Hub: deps.Hub})
	}

	origins, _ := utils.ParseOrigins(deps.Config.CORSOrigin)
	deps.Hub.AllowOrigins(origins)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.Config.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	authLimiter := middlewares.NewStrictRateLimiter()
	bookingLimiter := middlewares.NewRateLimiter(deps.Config.RateLimitRPS, deps.Config.RateLimitBurst)

	userCtrl := controllers.NewUserController(deps.DB)
	categoryCtrl := controllers.NewCategoryController(deps.DB)
	dishCtrl := controllers.NewDishController(deps.DB)
	menuCtrl := controllers.NewMenuController(deps.DB)
	favoriteCtrl := controllers.NewFavoriteController(deps.DB)
	reservationCtrl := controllers.NewReservationController(deps.DB, deps.Reservations)
	dashboardCtrl := controllers.NewDashboardController(deps.DB, deps.Clock)
	settingCtrl := controllers.NewSettingController(deps.DB)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PAGES
	// ----------------------------------------------------------------
	pages := web.NewPages(deps.DB, deps.Reservations)
	if err := pages.Register(r, authLimiter.RateLimit()); err != nil {
		return nil, err
	}

	api := r.Group("/api")
	authn := middlewares.AuthMiddleware(deps.DB)
	admin := middlewares.RequireRole(models.RoleAdmin)

	// ----------------------------------------------------------------
	//                      AUTH
	// ----------------------------------------------------------------
	auth := api.Group("/auth")
	{
		auth.POST("/register", authLimiter.RateLimit(), userCtrl.Register)
		auth.POST("/login", authLimiter.RateLimit(), userCtrl.Login)
		auth.POST("/logout", authn, userCtrl.Logout)
		auth.GET("/me", authn, userCtrl.GetProfile)
	}

	// ----------------------------------------------------------------
	//                      CATALOGUE
	// ----------------------------------------------------------------
	api.GET("/categories", categoryCtrl.GetAllCategories)
	api.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
	api.POST("/categories", authn, admin, categoryCtrl.CreateCategory)
	api.PUT("/categories/:cat_id", authn, admin, categoryCtrl.UpdateCategory)
	api.DELETE("/categories/:cat_id", authn, admin, categoryCtrl.DeleteCategory)

	api.GET("/dishes", dishCtrl.GetAllDishes)
	api.GET("/dishes/:dish_id", dishCtrl.GetDishByID)
	api.POST("/dishes", authn, admin, dishCtrl.CreateDish)
	api.PUT("/dishes/:dish_id", authn, admin, dishCtrl.UpdateDish)
	api.DELETE("/dishes/:dish_id", authn, admin, dishCtrl.DeleteDish)

	api.GET("/menus", menuCtrl.GetAllMenus)
	api.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	api.POST("/menus", authn, admin, menuCtrl.CreateMenu)
	api.PUT("/menus/:menu_id", authn, admin, menuCtrl.UpdateMenu)
	api.DELETE("/menus/:menu_id", authn, admin, menuCtrl.DeleteMenu)
	api.POST("/menus/:menu_id/dishes", authn, admin, menuCtrl.AddDish)
	api.DELETE("/menus/:menu_id/dishes/:dish_id", authn, admin, menuCtrl.RemoveDish)

	favorites := api.Group("/favorites", authn)
	{
		favorites.GET("", favoriteCtrl.GetFavorites)
		favorites.POST("", favoriteCtrl.AddFavorite)
		favorites.DELETE("/:dish_id", favoriteCtrl.RemoveFavorite)
	}

	// ----------------------------------------------------------------
	//                      RESERVATIONS
	// ----------------------------------------------------------------
	api.POST("/reservations/validate", reservationCtrl.ValidateReservation)
	reservations := api.Group("/reservations", authn)
	{
		reservations.POST("", bookingLimiter.RateLimit(), reservationCtrl.CreateReservation)
		reservations.GET("", reservationCtrl.GetReservations)
		reservations.GET("/:reservation_id", reservationCtrl.GetReservationByID)
		reservations.PATCH("/:reservation_id/status", admin, reservationCtrl.UpdateReservationStatus)
		reservations.DELETE("/:reservation_id", reservationCtrl.CancelReservation)
	}

	// ----------------------------------------------------------------
	//                      ADMIN
	// ----------------------------------------------------------------
	users := api.Group("/users", authn, admin)
	{
		users.GET("", userCtrl.GetAllUsers)
		users.GET("/:user_id", userCtrl.GetUserByID)
		users.PATCH("/:user_id/role", userCtrl.UpdateUserRole)
		users.DELETE("/:user_id", userCtrl.DeleteUser)
	}

	dashboard := api.Group("/dashboard", authn, admin)
	{
		dashboard.GET("/stats", dashboardCtrl.GetDashboardStats)
		dashboard.GET("/export", dashboardCtrl.ExportReservations)
	}

	api.GET("/settings", settingCtrl.GetSettings)
	api.PUT("/settings", authn, admin, settingCtrl.UpdateSettings)

	// WebSocket untuk staff: reservasi baru / update secara real-time
	ws := r.Group("/ws", middlewares.WebSocketAuthMiddleware(deps.DB), admin)
	{
		ws.GET("/staff", deps.Hub.Handler)
	}

	return r, nil
}
