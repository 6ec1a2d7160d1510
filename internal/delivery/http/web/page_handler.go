package web

import (
	"errors"
	"net/http"

	"marketing-site/internal/delivery/http/middleware"
	"marketing-site/internal/domain"
	"marketing-site/pkg/logger"

	"github.com/gin-gonic/gin"
)

var formFields = []string{domain.FieldName, domain.FieldEmail, domain.FieldSubject, domain.FieldMessage}

type PageHandler struct {
	siteName string
}

// NewPageHandler registers the server-rendered page routes. All of them
// require the Session and CSRF middleware on r.
func NewPageHandler(r gin.IRoutes, siteName string, limit gin.HandlerFunc) {
	h := &PageHandler{siteName: siteName}

	r.GET("/", h.Show)
	r.POST("/contact", limit, h.Submit)
	r.GET("/admin/submissions", h.ShowSubmissions)
	r.POST("/admin/close", h.CloseSubmissions)
}

// Show renders the page for the visitor's session
func (h *PageHandler) Show(c *gin.Context) {
	h.render(c, http.StatusOK)
}

// Submit applies the posted field values, runs the submit and redirects
// back to the form.
func (h *PageHandler) Submit(c *gin.Context) {
	page := middleware.Page(c)

	var form domain.ContactSubmission
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form data")
		return
	}

	current := page.View().Form
	for _, field := range formFields {
		posted, _ := form.Field(field)
		stored, _ := current.Field(field)
		if posted == stored {
			continue
		}
		if err := page.Change(field, posted); err != nil {
			// Inputs are disabled while sending; drop the whole request
			if errors.Is(err, domain.ErrSubmitInFlight) {
				c.Redirect(http.StatusSeeOther, "/#contact")
				return
			}
			c.Error(err)
			c.String(http.StatusBadRequest, "Invalid form data")
			return
		}
	}

	err := page.Submit(c.Request.Context())
	var verr *domain.ValidationError
	switch {
	case err == nil, errors.Is(err, domain.ErrSubmitInFlight), errors.As(err, &verr):
	default:
		logger.Log.ErrorContext(c.Request.Context(), "Contact submit failed", "error", err)
	}

	c.Redirect(http.StatusSeeOther, "/#contact")
}

// ShowSubmissions loads stored contacts and renders the page with the
// modal open, or with the admin error when loading failed.
func (h *PageHandler) ShowSubmissions(c *gin.Context) {
	page := middleware.Page(c)
	status := http.StatusOK
	if err := page.LoadSubmissions(c.Request.Context()); err != nil {
		status = http.StatusBadGateway
	}
	h.render(c, status)
}

// CloseSubmissions hides the modal
func (h *PageHandler) CloseSubmissions(c *gin.Context) {
	middleware.Page(c).CloseAdmin()
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) render(c *gin.Context, status int) {
	page := middleware.Page(c)
	c.HTML(status, PageTemplate, NewPageData(h.siteName, middleware.CSRFToken(c), page.View()))
}
