package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/middlewares"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/reservation"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/utils"
)

func (p *Pages) Home(c *gin.Context) {
	render(c, http.StatusOK, "home.html", p.page(c, "Accueil"))
}

// Carte lists the categories with their available dishes, then the active menus.
func (p *Pages) Carte(c *gin.Context) {
	data := p.page(c, "La carte")

	var categories []models.Category
	if err := p.DB.Preload("Dishes", "is_available = ?", true).
		Order("name ASC").Find(&categories).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading categories: %v", err)
		c.String(http.StatusInternalServerError, "Erreur interne")
		return
	}

	var menus []models.Menu
	if err := p.DB.Preload("Dishes").Where("is_active = ?", true).
		Order("price ASC").Find(&menus).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading menus: %v", err)
		c.String(http.StatusInternalServerError, "Erreur interne")
		return
	}

	data["Categories"] = categories
	data["Menus"] = menus
	render(c, http.StatusOK, "carte.html", data)
}

func (p *Pages) LoginForm(c *gin.Context) {
	data := p.page(c, "Connexion")
	data["Registered"] = c.Query("inscrit") == "1"
	render(c, http.StatusOK, "connexion.html", data)
}

func (p *Pages) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	data := p.page(c, "Connexion")
	data["Email"] = email

	user, err := services.Authenticate(p.DB, email, password)
	if err != nil {
		code := http.StatusInternalServerError
		data["Error"] = "Une erreur est survenue, veuillez réessayer"
		if errors.Is(err, services.ErrInvalidCredentials) {
			code = http.StatusUnauthorized
			data["Error"] = "Email ou mot de passe incorrect"
		}
		render(c, code, "connexion.html", data)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		data["Error"] = "Une erreur est survenue, veuillez réessayer"
		render(c, http.StatusInternalServerError, "connexion.html", data)
		return
	}

	setSession(c, token)
	c.Redirect(http.StatusSeeOther, "/reservation")
}

func (p *Pages) RegisterForm(c *gin.Context) {
	render(c, http.StatusOK, "inscription.html", p.page(c, "Inscription"))
}

func (p *Pages) SubmitRegistration(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	data := p.page(c, "Inscription")
	data["Name"] = name
	data["Email"] = email

	if name == "" || email == "" {
		data["Error"] = "Le nom et l'email sont requis"
		render(c, http.StatusBadRequest, "inscription.html", data)
		return
	}

	_, err := services.RegisterUser(p.DB, name, email, password)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		data["Error"] = "Cet email est déjà utilisé"
		render(c, http.StatusConflict, "inscription.html", data)
		return
	case errors.Is(err, services.ErrWeakPassword):
		data["Error"] = "Le mot de passe doit contenir au moins 8 caractères"
		render(c, http.StatusBadRequest, "inscription.html", data)
		return
	case errors.Is(err, services.ErrPasswordTooLong):
		data["Error"] = "Le mot de passe ne doit pas dépasser 72 caractères"
		render(c, http.StatusBadRequest, "inscription.html", data)
		return
	case err != nil:
		utils.ErrorLogger.Printf("Error registering %s: %v", email, err)
		data["Error"] = "Une erreur est survenue, veuillez réessayer"
		render(c, http.StatusInternalServerError, "inscription.html", data)
		return
	}

	c.Redirect(http.StatusSeeOther, "/connexion?inscrit=1")
}

// Logout revokes the cookie token as well as clearing it.
func (p *Pages) Logout(c *gin.Context) {
	if token, err := c.Cookie(middlewares.TokenCookie); err == nil && token != "" {
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		}
	}
	clearSession(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (p *Pages) ReservationForm(c *gin.Context) {
	data := p.page(c, "Réserver une table")
	data["Form"] = reservation.Input{PartySize: "2"}
	data["MinPartySize"] = reservation.MinPartySize
	data["MaxPartySize"] = reservation.MaxPartySize
	render(c, http.StatusOK, "reservation.html", data)
}

// SubmitReservation books the table and re-renders the form with every
// validation message, in order, when the request is rejected.
func (p *Pages) SubmitReservation(c *gin.Context) {
	in := reservation.Input{
		Date:            c.PostForm("reservation_date"),
		Time:            c.PostForm("reservation_time"),
		PartySize:       c.PostForm("number_of_people"),
		SpecialRequests: c.PostForm("special_requests"),
	}

	data := p.page(c, "Réserver une table")
	data["Form"] = in
	data["MinPartySize"] = reservation.MinPartySize
	data["MaxPartySize"] = reservation.MaxPartySize

	userID, _ := middlewares.CurrentUserID(c)
	r, res, err := p.Service.Book(userID, in)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, reservation.ErrContractViolation) {
			code = http.StatusBadRequest
		}
		utils.ErrorLogger.Printf("Error booking reservation for user %d: %v", userID, err)
		data["Errors"] = []string{"Une erreur est survenue, veuillez réessayer"}
		render(c, code, "reservation.html", data)
		return
	}
	if !res.Accepted {
		data["Errors"] = res.Errors
		render(c, http.StatusUnprocessableEntity, "reservation.html", data)
		return
	}

	data["Reservation"] = r
	render(c, http.StatusCreated, "confirmation.html", data)
}
