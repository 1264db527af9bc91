package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/labstack/gommon/color"

	"github.com/AfeiFun/ASR/internal/asr"
	"github.com/AfeiFun/ASR/internal/db"
	"github.com/AfeiFun/ASR/internal/download"
	"github.com/AfeiFun/ASR/internal/media"
	"github.com/AfeiFun/ASR/internal/pipeline"
	"github.com/AfeiFun/ASR/internal/service"
	"github.com/AfeiFun/ASR/internal/subtitle"
)

func main() {
	goapp.StartWithDefault()

	printBanner()

	cfg := goapp.Config

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	recognizer, err := asr.NewClient(cfg.GetString("engine.url"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init recognizer")
	}
	p, err := pipeline.New(recognizer, media.NewExtractor(), download.NewDownloader(cfg.GetString("ytdlp.path")))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init pipeline")
	}

	data := &service.Data{}
	data.Ctx = ctx
	data.Port = cfg.GetInt("port")
	data.Pipeline = p
	data.Renderer = subtitle.NewRenderer()
	data.Events = service.NewEventHub()
	data.Store = initStore(cfg.GetString("redis.url"), cfg.GetString("encryption.key"))
	defer data.Store.Close()

	doneCh, err := service.StartWebServer(data)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't start web server")
	}

	/////////////////////// Waiting for terminate
	waitCh := make(chan os.Signal, 2)
	signal.Notify(waitCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-waitCh:
		goapp.Log.Info().Msg("Got exit signal")
	case <-doneCh:
		goapp.Log.Info().Msg("Service exit")
	}
	cancelFunc()
	select {
	case <-doneCh:
		goapp.Log.Info().Msg("All code returned. Now exit. Bye")
	case <-time.After(time.Second * 15):
		goapp.Log.Warn().Msg("Timeout gracefull shutdown")
	}
}

func initStore(redisURL, encryptionKey string) db.JobStore {
	if redisURL == "" {
		goapp.Log.Info().Msg("no redis configured, using in-memory job store")
		return db.NewMemoryJobStore()
	}
	res, err := db.NewRedisJobStore(redisURL, encryptionKey)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init redis job store")
	}
	return res
}

var (
	version = "DEV"
)

func printBanner() {
	banner :=
		`
    VIDEO TRANSCRIPTION SERVICE v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("https://github.com/AfeiFun/ASR"))
}
