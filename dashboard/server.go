package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"OdontoSystem/logger"
	"OdontoSystem/middlewares"
	"OdontoSystem/models"
	"OdontoSystem/utils"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"login", "overview", "patients", "dentists", "procedures", "appointments", "finance", "users",
}

const sessionKey = "session"

type session struct {
	Token string
	User  *models.UserProfile
}

// page is the data every template receives.
type page struct {
	Title  string
	Active string
	User   *models.UserProfile
	Error  string
	Notice string
	Data   any
}

// Server renders the staff dashboard. It holds no state of its own; every
// page is built from API calls made with the visitor's token.
type Server struct {
	api   *Client
	log   *logger.Logger
	pages map[string]*template.Template
	now   func() time.Time
}

func NewServer(api *Client, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Nop()
	}
	funcs := template.FuncMap{
		"bloodTypes": func() []any { return models.BloodTypes },
		"money":      func(d decimal.Decimal) string { return d.StringFixed(2) },
		"pct":        func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"date": func(d *models.Date) string {
			if d == nil {
				return ""
			}
			return d.String()
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Server{api: api, log: log, pages: pages, now: time.Now}, nil
}

// Router builds the dashboard routes. Everything except the login page
// requires a session cookie.
func (s *Server) Router() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID(s.log))
	router.Use(middlewares.LoggingMiddleware(s.log))
	router.Use(middlewares.SecurityHeaders())

	router.GET("/login", s.loginPage)
	router.POST("/login", s.login)

	app := router.Group("", s.requireSession)
	{
		app.POST("/logout", s.logout)
		app.GET("/", s.overview)

		app.GET("/patients", s.patients)
		app.POST("/patients", s.createPatient)
		app.POST("/patients/:id/deactivate", s.deactivatePatient)

		app.GET("/dentists", s.dentists)
		app.POST("/dentists", s.createDentist)

		app.GET("/procedures", s.procedures)
		app.POST("/procedures", s.createProcedure)
		app.POST("/procedures/:id/delete", s.deleteProcedure)

		app.GET("/appointments", s.appointments)
		app.POST("/appointments", s.createAppointment)
		app.POST("/appointments/:id/status", s.setAppointmentStatus)
		app.POST("/appointments/:id/cancel", s.cancelAppointment)

		app.GET("/finance/:ledger", s.finance)
		app.POST("/finance/:ledger/entries", s.createEntry)
		app.POST("/finance/:ledger/entries/:id/delete", s.deleteEntry)
		app.POST("/goals", s.upsertGoal)

		app.GET("/users", s.users)
		app.POST("/users", s.createUser)
		app.POST("/users/:id/deactivate", s.deactivateUser)
	}
	return router
}

// requireSession loads the signed-in user; a missing or rejected token sends
// the visitor back to the login page.
func (s *Server) requireSession(c *gin.Context) {
	token := utils.SessionToken(c)
	if token == "" {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	user, err := s.api.Me(c.Request.Context(), token)
	if err != nil {
		if IsUnauthorized(err) {
			utils.ClearSessionCookie(c)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		s.log.Error(c.Request.Context(), "failed to load session", err)
		s.render(c, http.StatusBadGateway, "login", page{Title: "Sign in", Error: "The API is unavailable. Try again shortly."})
		c.Abort()
		return
	}
	c.Set(sessionKey, &session{Token: token, User: user})
	c.Next()
}

func currentSession(c *gin.Context) *session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session); ok {
			return sess
		}
	}
	return &session{}
}

func (s *Server) render(c *gin.Context, status int, name string, data page) {
	if data.User == nil {
		data.User = currentSession(c).User
	}
	if data.Notice == "" {
		data.Notice = c.Query("notice")
	}
	if data.Error == "" {
		data.Error = c.Query("error")
	}
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.pages[name].ExecuteTemplate(c.Writer, "layout.html", data); err != nil {
		s.log.Error(c.Request.Context(), "failed to render page", err)
	}
}

// done redirects after a form post, carrying a notice or an error message.
func (s *Server) done(c *gin.Context, target string, err error, notice string) {
	if err == nil {
		c.Redirect(http.StatusSeeOther, target+"?notice="+url.QueryEscape(notice))
		return
	}
	if IsUnauthorized(err) {
		utils.ClearSessionCookie(c)
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	c.Redirect(http.StatusSeeOther, target+"?error="+url.QueryEscape(s.message(c, err)))
}

// message turns an API failure into text for the page.
func (s *Server) message(c *gin.Context, err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return apiErr.Message
	}
	var invalid formError
	if errors.As(err, &invalid) {
		return invalid.Error()
	}
	s.log.Error(c.Request.Context(), "api call failed", err)
	return "The API is unavailable. Try again shortly."
}

// failed handles an error while building a page. It returns true when the
// response has already been written.
func (s *Server) failed(c *gin.Context, err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if IsUnauthorized(err) {
		utils.ClearSessionCookie(c)
		c.Redirect(http.StatusSeeOther, "/login")
		return "", true
	}
	return s.message(c, err), false
}
