package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookgo/grace/gracehttp"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/AfeiFun/ASR/internal/db"
	"github.com/AfeiFun/ASR/internal/media"
	"github.com/AfeiFun/ASR/internal/pipeline"
	"github.com/AfeiFun/ASR/internal/subtitle"
	"github.com/AfeiFun/ASR/internal/transcription"
)

// Data keeps data required for service work
type Data struct {
	Port     int
	Pipeline *pipeline.Pipeline
	Store    db.JobStore
	Renderer *subtitle.Renderer
	Events   *EventHub
	Ctx      context.Context

	jobs *jobRunner
}

// StartWebServer starts echo web service
func StartWebServer(data *Data) (<-chan struct{}, error) {
	goapp.Log.Info().Msgf("Starting transcription service at %d", data.Port)
	if err := validate(data); err != nil {
		return nil, err
	}
	data.jobs = newJobRunner(data.Store, data.Pipeline, data.Events)

	portStr := strconv.Itoa(data.Port)

	e := initRoutes(data)

	e.Server.Addr = ":" + portStr
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	gracehttp.SetLogger(log.New(goapp.Log, "", 0))

	res := make(chan struct{}, 1)
	go func() {
		defer close(res)
		if err := gracehttp.Serve(e.Server); err != nil {
			goapp.Log.Error().Err(err).Msg("can't start web server")
		}
		goapp.Log.Info().Msg("exit http routine")
	}()
	return res, nil
}

var promMdlw *prometheus.Prometheus

func init() {
	promMdlw = prometheus.NewPrometheus("asr", nil)
}

func initRoutes(data *Data) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Logger())
	promMdlw.Use(e)

	e.GET("/live", live(data))
	e.GET("/languages", languages(data))
	e.GET("/formats", formats(data))
	e.POST("/transcribe", transcribeFile(data))
	e.POST("/transcribe/url", transcribeURL(data))
	e.GET("/jobs/:id", jobStatus(data))
	e.GET("/jobs/:id/result", jobResult(data))
	e.GET("/client/ws/jobs", subscribeJobs(data))

	goapp.Log.Info().Msg("Routes:")
	for _, r := range e.Routes() {
		goapp.Log.Info().Msgf("  %s %s", r.Method, r.Path)
	}
	return e
}

func live(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"service":"OK"}`))
	}
}

func languages(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string][]string{"languages": transcription.SupportedLanguages()})
	}
}

func formats(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"formats":       subtitle.Formats(),
			"video_formats": media.SupportedVideoFormats(),
		})
	}
}

func validate(data *Data) error {
	if data.Pipeline == nil {
		return fmt.Errorf("no Pipeline")
	}
	if data.Store == nil {
		return fmt.Errorf("no Store")
	}
	if data.Renderer == nil {
		return fmt.Errorf("no Renderer")
	}
	if data.Events == nil {
		return fmt.Errorf("no Events")
	}
	return nil
}
