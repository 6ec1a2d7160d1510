package middleware

import (
	"net/http"

	"marketing-site/internal/domain"
	"marketing-site/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookieName holds the visitor's page session id
const SessionCookieName = "site_session"

// Session resolves the visitor's ContactPage, issuing a session cookie on
// first visit.
func Session(store *usecase.PageStore, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookieName)
		if _, parseErr := uuid.Parse(id); err != nil || parseErr != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, id, 0, "/", "", secure, true)
		}

		c.Set(string(domain.KeySessionID), id)
		c.Set(string(domain.KeyPage), store.Get(id))
		c.Next()
	}
}

// Page returns the ContactPage set by Session
func Page(c *gin.Context) *usecase.ContactPage {
	v, ok := c.Get(string(domain.KeyPage))
	if !ok {
		return nil
	}
	page, _ := v.(*usecase.ContactPage)
	return page
}
