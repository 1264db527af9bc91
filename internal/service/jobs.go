package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/AfeiFun/ASR/internal/api"
	"github.com/AfeiFun/ASR/internal/db"
	"github.com/AfeiFun/ASR/internal/pipeline"
	"github.com/AfeiFun/ASR/internal/subtitle"
)

type transcribeRequest struct {
	File      string `json:"file"`
	URL       string `json:"url"`
	Language  string `json:"language"`
	BatchSize int    `json:"batch_size"`
}

type transcribeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// jobRunner executes transcription jobs asynchronously and records their
// lifecycle in the store.
type jobRunner struct {
	store    db.JobStore
	pipeline *pipeline.Pipeline
	events   *EventHub
}

func newJobRunner(store db.JobStore, p *pipeline.Pipeline, events *EventHub) *jobRunner {
	return &jobRunner{store: store, pipeline: p, events: events}
}

type runFunc func(ctx context.Context, opts pipeline.Options) (*api.TranscriptionResult, error)

func (jr *jobRunner) start(ctx context.Context, job *api.Job, run runFunc) error {
	job.ID = ulid.Make().String()
	job.Status = api.JobQueued
	job.Created = time.Now().Unix()
	if err := jr.store.SaveJob(ctx, job); err != nil {
		return err
	}
	jr.events.Publish(api.JobEvent{Event: api.EventQueued, JobID: job.ID})

	go jr.run(ctx, *job, run)
	return nil
}

func (jr *jobRunner) run(ctx context.Context, job api.Job, run runFunc) {
	job.Status = api.JobRunning
	jr.save(ctx, &job)
	jr.events.Publish(api.JobEvent{Event: api.EventStarted, JobID: job.ID})

	opts := pipeline.Options{Language: job.Language, WithTimestamps: true}
	res, err := run(ctx, opts)
	if err != nil {
		goapp.Log.Error().Err(err).Str("id", job.ID).Msg("job failed")
		job.Status = api.JobFailed
		job.Error = err.Error()
		jr.save(ctx, &job)
		jr.events.Publish(api.JobEvent{Event: api.EventFailed, JobID: job.ID, Error: job.Error})
		return
	}
	job.Result = res
	if res.Success {
		job.Status = api.JobDone
		jr.save(ctx, &job)
		jr.events.Publish(api.JobEvent{Event: api.EventFinished, JobID: job.ID})
		return
	}
	job.Status = api.JobFailed
	job.Error = res.Error
	jr.save(ctx, &job)
	jr.events.Publish(api.JobEvent{Event: api.EventFailed, JobID: job.ID, Error: job.Error})
}

func (jr *jobRunner) save(ctx context.Context, job *api.Job) {
	if err := jr.store.SaveJob(ctx, job); err != nil {
		goapp.Log.Error().Err(err).Str("id", job.ID).Msg("can't save job")
	}
}

func transcribeFile(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		var req transcribeRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "can't decode request")
		}
		if req.File == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "no file")
		}
		job := &api.Job{Input: req.File, Language: req.Language}
		err := data.jobs.start(data.Ctx, job, func(ctx context.Context, opts pipeline.Options) (*api.TranscriptionResult, error) {
			opts.BatchSize = req.BatchSize
			return data.Pipeline.TranscribeFile(ctx, req.File, opts)
		})
		if err != nil {
			goapp.Log.Error().Err(err).Msg("can't start job")
			return echo.NewHTTPError(http.StatusInternalServerError, "can't start job")
		}
		return c.JSON(http.StatusAccepted, transcribeResponse{ID: job.ID, Status: job.Status})
	}
}

func transcribeURL(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		var req transcribeRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "can't decode request")
		}
		if req.URL == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "no url")
		}
		job := &api.Job{URL: req.URL, Language: req.Language}
		err := data.jobs.start(data.Ctx, job, func(ctx context.Context, opts pipeline.Options) (*api.TranscriptionResult, error) {
			opts.BatchSize = req.BatchSize
			return data.Pipeline.TranscribeURL(ctx, req.URL, opts)
		})
		if err != nil {
			goapp.Log.Error().Err(err).Msg("can't start job")
			return echo.NewHTTPError(http.StatusInternalServerError, "can't start job")
		}
		return c.JSON(http.StatusAccepted, transcribeResponse{ID: job.ID, Status: job.Status})
	}
}

func jobStatus(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		job, err := data.Store.GetJob(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "no job")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "can't get job")
		}
		return c.JSON(http.StatusOK, job)
	}
}

func jobResult(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		job, err := data.Store.GetJob(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "no job")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "can't get job")
		}
		if job.Result == nil {
			return echo.NewHTTPError(http.StatusConflict, "job not finished")
		}
		format := c.QueryParam("format")
		if format == "" {
			format = subtitle.FormatText
		}
		rendered := data.Renderer.Render(job.Result, format)
		if format == subtitle.FormatJSON {
			return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(rendered))
		}
		return c.String(http.StatusOK, rendered)
	}
}
