// Package api serves the scrubber over HTTP. Each request body is one tree
// file and gets its own scrubber; nothing is shared between requests.
package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"golang.org/x/text/transform"

	"github.com/samcharles93/cleantree/internal/logger"
	"github.com/samcharles93/cleantree/internal/report"
	"github.com/samcharles93/cleantree/internal/scrub"
	"github.com/samcharles93/cleantree/internal/version"
)

// Response headers. On /v1/scrub/stream the counts and HeaderScrubError
// are sent as trailers.
const (
	HeaderScrubID       = "X-Scrub-Id"
	HeaderValuesRemoved = "X-Scrub-Values-Removed"
	HeaderSetsRemoved   = "X-Scrub-Sets-Removed"
	HeaderEndState      = "X-Scrub-End-State"
	HeaderScrubError    = "X-Scrub-Error"

	// DefaultMaxBodyBytes bounds request bodies when Config leaves it unset.
	DefaultMaxBodyBytes = 1 << 30

	mimeTrees = "text/plain; charset=utf-8"
)

// Config configures a Server. Query parameters may override Options per
// request.
type Config struct {
	Options      scrub.Options
	MaxBodyBytes int64
	Logger       logger.Logger
}

// Server holds the defaults shared by all scrub handlers.
type Server struct {
	opts    scrub.Options
	maxBody int64
	log     logger.Logger
}

// NewServer returns a Server, filling in DefaultMaxBodyBytes and a discard
// logger when cfg leaves them unset.
func NewServer(cfg Config) *Server {
	s := &Server{opts: cfg.Options, maxBody: cfg.MaxBodyBytes, log: cfg.Logger}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	return s
}

// Register mounts the scrub routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/scrub", s.handleScrub)
	e.POST("/v1/scrub/stream", s.handleScrubStream)
	e.POST("/v1/scrub/report", s.handleReport)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.String(),
	})
}

func (s *Server) body(c *echo.Context) io.Reader {
	return http.MaxBytesReader(c.Response(), c.Request().Body, s.maxBody)
}

// handleScrub buffers the scrubbed tree so that header and matcher errors
// can still be reported with a proper status code.
func (s *Server) handleScrub(c *echo.Context) error {
	opts, err := s.requestOptions(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	id := report.NewID()
	log := s.log.With("id", id)

	var out bytes.Buffer
	start := time.Now()
	st, err := scrub.Run(s.body(c), &out, opts)
	if err != nil {
		log.Warn("scrub failed", "error", err, "bytes_in", st.BytesIn)
		return writeScrubError(c, id, err)
	}
	log.Info("scrubbed", "bytes_in", st.BytesIn, "bytes_out", st.BytesOut,
		"removed", st.Removed(), "duration", time.Since(start))

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, mimeTrees)
	res.Header().Set(HeaderScrubID, id)
	setStatsHeaders(res.Header(), st)
	res.WriteHeader(http.StatusOK)
	_, err = res.Write(out.Bytes())
	return err
}

// handleScrubStream pipes the body through a Transformer without buffering.
// The status is committed before the input is read, so failures are
// reported in the X-Scrub-Error trailer.
func (s *Server) handleScrubStream(c *echo.Context) error {
	opts, err := s.requestOptions(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	tr, err := scrub.NewTransformer(opts)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	id := report.NewID()
	log := s.log.With("id", id)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, mimeTrees)
	res.Header().Set(HeaderScrubID, id)
	res.Header().Set("Trailer", HeaderValuesRemoved+", "+HeaderSetsRemoved+", "+HeaderEndState+", "+HeaderScrubError)
	res.WriteHeader(http.StatusOK)

	_, err = io.Copy(res, transform.NewReader(s.body(c), tr))
	st := tr.Stats()
	setStatsHeaders(res.Header(), st)
	if err != nil {
		res.Header().Set(HeaderScrubError, err.Error())
		log.Warn("stream scrub failed", "error", err, "bytes_in", st.BytesIn)
		return nil
	}
	log.Info("stream scrubbed", "bytes_in", st.BytesIn, "bytes_out", st.BytesOut, "removed", st.Removed())
	return nil
}

// handleReport scrubs the body, discards the tree and returns the report.
func (s *Server) handleReport(c *echo.Context) error {
	opts, err := s.requestOptions(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	rep := report.New(report.NewID(), opts)
	start := time.Now()
	st, err := scrub.Run(s.body(c), io.Discard, opts)
	rep.Finish(st, err, time.Since(start))
	if err != nil {
		return writeScrubError(c, rep.ID, err)
	}
	s.log.Debug("report", "id", rep.ID, "removed", st.Removed())
	return writeJSON(c, http.StatusOK, rep)
}
