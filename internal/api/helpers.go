package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/cleantree/internal/scrub"
)

func writeJSON(c *echo.Context, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res.WriteHeader(status)
	_, err = res.Write(append(data, '\n'))
	return err
}

// requestOptions overlays query parameters on the server defaults:
// header_skip, header_marker, key and flush_pending.
func (s *Server) requestOptions(c *echo.Context) (scrub.Options, error) {
	opts := s.opts

	skip := strings.TrimSpace(c.QueryParam("header_skip"))
	if skip != "" {
		n, err := strconv.ParseInt(skip, 10, 64)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("header_skip must be a non-negative integer, got %q", skip)
		}
		opts.Header.Skip = n
	}
	if v := c.QueryParam("header_marker"); v != "" {
		opts.Header.Marker = v
		if skip == "" {
			opts.Header.Skip = 0
		}
	}
	if v := strings.TrimSpace(c.QueryParam("key")); v != "" {
		p, err := scrub.NewPatterns(v)
		if err != nil {
			return opts, err
		}
		opts.Patterns = p
	}
	if v := strings.TrimSpace(c.QueryParam("flush_pending")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("flush_pending must be a boolean, got %q", v)
		}
		opts.FlushPending = b
	}
	return opts, nil
}

func setStatsHeaders(h http.Header, st scrub.Stats) {
	h.Set(HeaderValuesRemoved, strconv.Itoa(st.ValuesRemoved))
	h.Set(HeaderSetsRemoved, strconv.Itoa(st.SetsRemoved))
	h.Set(HeaderEndState, st.EndStateName)
}
