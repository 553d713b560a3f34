// Package web renders the public site: home, carte, account and reservation pages.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/database"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"price": utils.FormatPriceEUR,
	}).ParseFS(templateFS, "templates/*.html")
}

// Static serves the stylesheet and images under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

type Pages struct {
	DB      *gorm.DB
	Service *services.ReservationService
}

func NewPages(db *gorm.DB, service *services.ReservationService) *Pages {
	return &Pages{DB: db, Service: service}
}

// Register mounts every page on r and installs the templates. limit guards the
// login and register forms.
func (p *Pages) Register(r *gin.Engine, limit gin.HandlerFunc) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", Static())

	r.GET("/", p.Home)
	r.GET("/carte", p.Carte)
	r.GET("/connexion", p.LoginForm)
	r.POST("/connexion", limit, p.Login)
	r.GET("/inscription", p.RegisterForm)
	r.POST("/inscription", limit, p.SubmitRegistration)
	r.POST("/deconnexion", p.Logout)

	reservation := r.Group("/reservation", p.RequireSession())
	reservation.GET("", p.ReservationForm)
	reservation.POST("", p.SubmitReservation)
	return nil
}

// page builds the data shared by every template: settings, opening hours and
// whether a visitor is signed in.
func (p *Pages) page(c *gin.Context, title string) gin.H {
	setting, err := database.LoadSettings(p.DB)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("Error loading settings: %v", err)
		}
		setting = models.DefaultSetting("UTC")
	}

	hours := ""
	if schedule, err := setting.Schedule(); err == nil {
		hours = schedule.Describe()
	}

	_, signedIn := sessionClaims(c, p.DB)
	return gin.H{
		"Title":    title,
		"Setting":  setting,
		"Hours":    hours,
		"SignedIn": signedIn,
	}
}

func render(c *gin.Context, code int, name string, data gin.H) {
	c.HTML(code, name, data)
}
