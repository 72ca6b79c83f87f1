// Package pages serves the chat page and the PayPal return pages.
package pages

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	//go:embed templates/*.html
	templatesFS embed.FS

	//go:embed static
	staticFS embed.FS
)

type Handler struct {
	ClientID string
	PlanID   string
}

func NewHandler(clientID, planID string) *Handler {
	return &Handler{ClientID: clientID, PlanID: planID}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/index.html")))

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/", h.index)
	r.GET("/pago_exitoso", staticPage("templates/pago_exitoso.html"))
	r.GET("/pago_cancelado", staticPage("templates/pago_cancelado.html"))
}

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"PayPalClientID": h.ClientID,
		"PayPalPlanID":   h.PlanID,
	})
}

// staticPage serves an embedded page as-is.
func staticPage(name string) gin.HandlerFunc {
	page, err := templatesFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}
