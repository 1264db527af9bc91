package asr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/AfeiFun/ASR/internal/api"
	"github.com/AfeiFun/ASR/internal/utils"
)

// Client communicates with the speech recognition engine service
type Client struct {
	httpclient *http.Client
	url        string
	timeout    time.Duration
}

// NewClient creates a recognition engine client
func NewClient(url string) (*Client, error) {
	res := Client{}
	if url == "" {
		return nil, fmt.Errorf("no engine URL")
	}
	res.url = url
	res.timeout = time.Minute * 30
	res.httpclient = asrHTTPClient()
	goapp.Log.Info().Str("url", url).Msg("Recognizer")
	return &res, nil
}

// Recognize uploads the audio file and decodes the engine result.
func (sp *Client) Recognize(ctx context.Context, audioPath string, opts Options) (*api.RawResult, error) {
	defer utils.MeasureTime("recognize", time.Now())
	ctx, cancelF := context.WithTimeout(ctx, sp.timeout)
	defer cancelF()

	b, contentType, err := makeMultipart(audioPath, opts)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sp.url, b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := sp.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1000))
		_ = resp.Body.Close()
	}()
	if err := goapp.ValidateHTTPResp(resp, 100); err != nil {
		err = fmt.Errorf("can't invoke '%s': %w", req.URL.String(), err)
		return nil, err
	}
	res := &api.RawResult{}
	if err := decodeResult(resp.Body, res); err != nil {
		return nil, err
	}
	return res, nil
}

func makeMultipart(audioPath string, opts Options) (*bytes.Buffer, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	b := new(bytes.Buffer)
	w := multipart.NewWriter(b)
	part, err := w.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy audio: %w", err)
	}
	lang := opts.Language
	if lang == "" {
		lang = "auto"
	}
	_ = w.WriteField("language", lang)
	if opts.BatchSize > 0 {
		_ = w.WriteField("batch_size", strconv.Itoa(opts.BatchSize))
	}
	_ = w.WriteField("use_itn", strconv.FormatBool(opts.UseNormalization))
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return b, w.FormDataContentType(), nil
}

func asrHTTPClient() *http.Client {
	return &http.Client{Transport: newTransport()}
}

func newTransport() http.RoundTripper {
	res := http.DefaultTransport.(*http.Transport).Clone()
	res.MaxConnsPerHost = 5
	res.MaxIdleConns = 2
	res.MaxIdleConnsPerHost = 2
	res.IdleConnTimeout = 90 * time.Second
	return res
}
