package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/ytdlp"
	"github.com/labstack/echo/v4"
)

//go:embed templates
var templateFS embed.FS

// Handler serves the interactive download form. Option lists come from
// the command builder tables so the UI and the builder never drift.
type Handler struct {
	templates *template.Template
}

func NewHandler() *Handler {
	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
	return &Handler{templates: tmpl}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.homePage)
}

type pageData struct {
	Qualities []string
	Formats   []string
	Cookies   []string
	Speeds    []string
}

func (h *Handler) homePage(c echo.Context) error {
	data := pageData{
		Qualities: ytdlp.QualityLabels(),
		Formats:   ytdlp.FormatLabels(),
		Cookies:   ytdlp.CookieSources,
		Speeds:    ytdlp.SpeedLabels(),
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return h.templates.ExecuteTemplate(c.Response(), "index.html", data)
}
