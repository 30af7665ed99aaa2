package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"aura/internal/assistant"
)

// Wire names shared with the client.
const (
	FieldName        = "audio"
	TranscriptHeader = "X-Transcript"
	ResponseFilename = "response.wav"

	errorTranscript = "Error processing request"
)

// Error bodies.
const (
	msgMissingAudio    = "Missing audio field"
	msgNoSpeech        = "No speech detected"
	msgAudioGeneration = "Audio generation failed"
)

// Request outcomes for the counter.
const (
	outcomeOK       = "ok"
	outcomeNoSpeech = "no_speech"
	outcomeFallback = "fallback"
	outcomeFailed   = "failed"
	outcomeInvalid  = "invalid"
)

// initRoutes registers all routes.
func (s *Server) initRoutes() {
	e := s.echo

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "Aura API running",
		})
	})

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "aura",
			"uptime":  time.Since(s.started).Round(time.Second).String(),
		})
	})

	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	limit := fmt.Sprintf("%dM", s.cfg.MaxUploadMB)
	e.POST("/process", s.process, middleware.BodyLimit(limit))
}

// process handles one recorded command.
func (s *Server) process(c echo.Context) error {
	ctx := c.Request().Context()
	logger := s.logger.With(zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))

	data, mediaType, err := readUpload(c)
	if err != nil {
		s.metrics.RecordRequest(outcomeInvalid)
		logger.Warn("Invalid upload", zap.Error(err))
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return err
		}
		return c.String(http.StatusBadRequest, msgMissingAudio)
	}
	s.metrics.RecordUpload(int64(len(data)))

	text, err := s.processor.Transcribe(ctx, data, mediaType)
	if errors.Is(err, assistant.ErrNoSpeech) {
		s.metrics.RecordRequest(outcomeNoSpeech)
		return c.String(http.StatusBadRequest, msgNoSpeech)
	}
	if err != nil {
		logger.Error("Processing error", zap.Error(err))
		return s.fallback(c, logger)
	}

	res, err := s.processor.Respond(ctx, text)
	if err != nil {
		logger.Error("Processing error", zap.String("transcript", text), zap.Error(err))
		return s.fallback(c, logger)
	}

	s.metrics.RecordRequest(outcomeOK)
	h := c.Response().Header()
	h.Set(TranscriptHeader, headerValue(res.Transcript))
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", ResponseFilename))
	return c.Blob(http.StatusOK, "audio/wav", res.Audio)
}

// fallback answers the spoken apology, or 500 when even that fails.
func (s *Server) fallback(c echo.Context, logger *zap.Logger) error {
	wav, err := s.processor.Fallback(c.Request().Context())
	if err != nil {
		s.metrics.RecordRequest(outcomeFailed)
		logger.Error("TTS fallback failed", zap.Error(err))
		return c.String(http.StatusInternalServerError, msgAudioGeneration)
	}

	s.metrics.RecordRequest(outcomeFallback)
	c.Response().Header().Set(TranscriptHeader, errorTranscript)
	return c.Blob(http.StatusOK, "audio/wav", wav)
}

// readUpload returns the bytes and content type of the audio field.
func readUpload(c echo.Context) ([]byte, string, error) {
	fh, err := c.FormFile(FieldName)
	if err != nil {
		return nil, "", err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty audio field")
	}
	return data, fh.Header.Get(echo.HeaderContentType), nil
}

// headerValue keeps the transcript on one header line.
func headerValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
