// Package client отправляет запись на сервер обработки.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"aura/internal/session"
)

const (
	// FieldName имя поля multipart формы.
	FieldName = "audio"
	// TranscriptHeader заголовок с расшифровкой запроса.
	TranscriptHeader = "X-Transcript"
	// DefaultEndpoint путь обработки на сервере.
	DefaultEndpoint = "/process"

	maxErrorBody = 64 << 10
)

// Options параметры Uploader.
type Options struct {
	ServerURL string
	Endpoint  string        // пусто - DefaultEndpoint
	Timeout   time.Duration // 0 - без таймаута
	HTTP2     bool
	Logger    *zap.Logger
}

// Uploader реализует session.Uploader поверх HTTP.
type Uploader struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// New создаёт Uploader.
func New(opts Options) (*Uploader, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.ServerURL), "/")
	if base == "" {
		return nil, fmt.Errorf("client: server url is required")
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
	}
	if opts.HTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("client: configure http2: %w", err)
		}
	}

	return &Uploader{
		url: base + endpoint,
		http: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		logger: logger,
	}, nil
}

// URL возвращает адрес обработки.
func (u *Uploader) URL() string {
	return u.url
}

// Upload отправляет запись и возвращает ответ сервера.
func (u *Uploader) Upload(ctx context.Context, blob session.Blob) (*session.Reply, error) {
	body, contentType, err := buildForm(blob)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, body)
	if err != nil {
		return nil, &session.TransportError{Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.http.Do(req)
	if err != nil {
		return nil, &session.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		u.logger.Warn("Сервер вернул ошибку",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(text)))
		return nil, &session.ApplicationError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &session.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	return &session.Reply{
		Transcript: resp.Header.Get(TranscriptHeader),
		Audio:      audio,
		MediaType:  mediaType(resp.Header.Get("Content-Type")),
	}, nil
}

// buildForm собирает multipart тело с единственным полем audio.
func buildForm(blob session.Blob) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldName, blob.Filename))
	h.Set("Content-Type", blob.MediaType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(blob.Data); err != nil {
		return nil, "", fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// mediaType отбрасывает параметры Content-Type.
func mediaType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
