package client

import (
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// debugTransport logs every request and response at debug level.
//
// It is installed by WithDebugLogging, or automatically when
// PACKMATE_DEBUG=true or DEBUG=true is set. Dumps include bodies, so
// detection uploads and user data end up in the log; keep it out of
// production.
//
//	export PACKMATE_DEBUG=true
//	packmate scan shirt.jpg   # all HTTP traffic is logged
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := dt.base
	if base == nil {
		base = http.DefaultTransport
	}

	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Dur("elapsed", time.Since(start)).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Dur("elapsed", time.Since(start)).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested reports whether PACKMATE_DEBUG or DEBUG is "true".
func debugLoggingRequested() bool {
	return os.Getenv("PACKMATE_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
