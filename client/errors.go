package client

import (
	"errors"
	"net/http"

	sdkerrors "github.com/tripwise/packmate/client/internal/errors"
	"github.com/tripwise/packmate/client/internal/shardqueue"
)

// APIError is returned for every non-2xx answer. Its message has the form
// "API error (<status>): <text>".
type APIError = sdkerrors.APIError

// NetworkError wraps transport failures (DNS, refused connections, timeouts).
type NetworkError = sdkerrors.NetworkError

// ErrBackPressure is returned when the client's internal shard queue is full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// ErrClosed is returned by Submit after Close.
var ErrClosed = shardqueue.ErrExecutorClosed

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int { return sdkerrors.StatusCode(err) }

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return StatusCode(err) == http.StatusNotFound }
