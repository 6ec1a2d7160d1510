// Package web holds the embedded page templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"marketing-site/internal/domain"
	"marketing-site/internal/usecase"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageTemplate is the name of the full page template
const PageTemplate = "page.html"

// Service is one card of the services section
type Service struct {
	Icon        string
	Title       string
	Description string
}

// DefaultServices are the cards shown in the services section
var DefaultServices = []Service{
	{Icon: "🚀", Title: "Strategy", Description: "Comprehensive business strategies tailored to your goals"},
	{Icon: "💡", Title: "Consulting", Description: "Expert consulting services to help your business grow"},
	{Icon: "🎯", Title: "Solutions", Description: "Innovative solutions designed for your success"},
}

// PageData is everything page.html renders
type PageData struct {
	SiteName  string
	CSRFToken string
	Year      int
	Services  []Service
	Page      usecase.PageView
}

// NewPageData wraps a page snapshot with the static site content
func NewPageData(siteName, csrfToken string, view usecase.PageView) PageData {
	return PageData{
		SiteName:  siteName,
		CSRFToken: csrfToken,
		Year:      time.Now().Year(),
		Services:  DefaultServices,
		Page:      view,
	}
}

// Templates parses the embedded templates
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"formatTimestamp": FormatTimestamp,
		"hasStatus": func(s domain.SubmitStatus) bool {
			return s.Kind != domain.StatusNone
		},
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// FormatTimestamp renders an ISO-8601 timestamp for display, falling back
// to the raw value when it does not parse.
func FormatTimestamp(ts string) string {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Local().Format("Jan 2, 2006, 3:04:05 PM")
		}
	}
	return ts
}
