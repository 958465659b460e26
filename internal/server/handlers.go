package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/fileserver"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/job"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/server/response"
	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/ytdlp"
	"github.com/labstack/echo/v4"
)

const infoTimeout = 60 * time.Second

type Handler struct {
	registry *job.Registry
	builder  ytdlp.Builder
	files    *fileserver.Server
}

func NewHandler(registry *job.Registry, builder ytdlp.Builder, files *fileserver.Server) *Handler {
	return &Handler{
		registry: registry,
		builder:  builder,
		files:    files,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/download", h.Download)
	e.GET("/status", h.Status)
	e.GET("/fetch/:filename", h.Fetch)
	e.GET("/health", h.Health)
	e.POST("/info", h.Info)
}

type downloadResponse struct {
	OK    bool   `json:"ok"`
	JobID string `json:"job_id"`
}

func (h *Handler) Download(c echo.Context) error {
	rawURL := c.FormValue("url")
	if rawURL == "" {
		return response.Error(c, http.StatusBadRequest, "Missing URL")
	}

	cmd := h.builder.Build(ytdlp.Options{
		URL:     rawURL,
		Quality: c.FormValue("quality"),
		Format:  c.FormValue("format"),
		Cookies: c.FormValue("cookies"),
		Speed:   c.FormValue("speed"),
	})

	id := h.registry.Submit(cmd)
	return c.JSON(http.StatusOK, downloadResponse{OK: true, JobID: id})
}

type statusResponse struct {
	OK       bool         `json:"ok"`
	Status   snapshotBody `json:"status"`
	Done     bool         `json:"done"`
	Filename *string      `json:"filename"`
	Error    *string      `json:"error"`
}

type snapshotBody struct {
	Pct   float64 `json:"pct"`
	Speed string  `json:"speed"`
	ETA   string  `json:"eta"`
	Text  string  `json:"text"`
}

func (h *Handler) Status(c echo.Context) error {
	id := c.QueryParam("job")
	v, ok := h.registry.Get(id)
	if id == "" || !ok {
		return response.Error(c, http.StatusBadRequest, "Invalid job")
	}

	resp := statusResponse{
		OK: true,
		Status: snapshotBody{
			Pct:   v.Status.Pct,
			Speed: v.Status.Speed,
			ETA:   v.Status.ETA,
			Text:  v.Status.Text,
		},
		Done: v.Done,
	}
	if v.Filename != "" {
		resp.Filename = &v.Filename
	}
	if v.Error != "" {
		resp.Error = &v.Error
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Fetch(c echo.Context) error {
	filename := c.Param("filename")
	if decoded, err := url.PathUnescape(filename); err == nil {
		filename = decoded
	}
	h.files.ServeFile(c.Response(), c.Request(), filename)
	return nil
}

type healthResponse struct {
	OK        bool   `json:"ok"`
	Version   string `json:"version"`
	LatencyMs int64  `json:"latency_ms"`
}

func (h *Handler) Health(c echo.Context) error {
	st := ytdlp.Health(c.Request().Context(), h.builder.Binary)
	if !st.OK {
		return response.Error(c, http.StatusServiceUnavailable, st.Message)
	}
	return c.JSON(http.StatusOK, healthResponse{
		OK:        true,
		Version:   st.Message,
		LatencyMs: st.Latency.Milliseconds(),
	})
}

type infoResponse struct {
	OK   bool            `json:"ok"`
	Info *ytdlp.InfoJSON `json:"info"`
}

func (h *Handler) Info(c echo.Context) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	if req.URL == "" {
		return response.Error(c, http.StatusBadRequest, "url is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), infoTimeout)
	defer cancel()

	info, err := ytdlp.ExtractInfo(ctx, h.builder.Binary, req.URL)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, infoResponse{OK: true, Info: info})
}
