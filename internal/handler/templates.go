package handler

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pagecart/bookstore/internal/domain"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"year": func() int {
			return time.Now().Year()
		},
		// dollars formats integer cents as a dollar amount, e.g. 1999 -> "19.99"
		"dollars": func(cents int64) string {
			sign := ""
			if cents < 0 {
				sign = "-"
				cents = -cents
			}
			return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
		},
		"dollars32": func(cents int32) string {
			return fmt.Sprintf("%d.%02d", cents/100, cents%100)
		},
		// stars renders a 1..5 rating as filled and empty stars
		"stars": func(rating int32) string {
			if rating < 0 {
				rating = 0
			}
			if rating > 5 {
				rating = 5
			}
			return strings.Repeat("★", int(rating)) + strings.Repeat("☆", 5-int(rating))
		},
		"uuid": domain.UUIDString,
		"formatDate": func(ts pgtype.Timestamptz) string {
			if !ts.Valid {
				return ""
			}
			return ts.Time.Format("January 2, 2006")
		},
	}
}
