// Package templates embeds the HTML pages of the form UI.
package templates

import (
	"embed"
	"html/template"
	"time"

	"restaurant-pos/models"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

//go:embed *.tmpl
var files embed.FS

// Funcs are the helpers available to every page
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return "$" + d.StringFixed(2)
		},
		"since": func(t time.Time) string {
			return humanize.Time(t)
		},
		"datetime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
		"orderStatuses": func() []models.OrderStatus {
			return models.OrderStatuses
		},
	}
}

// Load parses every page; gin looks them up by file name
func Load() (*template.Template, error) {
	return template.New("pos").Funcs(Funcs()).ParseFS(files, "*.tmpl")
}
