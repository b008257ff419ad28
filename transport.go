package evexml

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
)

// Response is the raw outcome of one transport round trip.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// Transport performs HTTP GETs for the dispatcher. Implementations must
// honor ctx cancellation. Errors are returned raw; the dispatcher wraps them
// with endpoint context as a TransportError.
type Transport interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// DefaultTimeout bounds one round trip when the caller does not configure a
// transport of their own.
const DefaultTimeout = 30 * time.Second

// userAgent identifies this library to the API operator.
const userAgent = "evexml (+https://github.com/podside/evexml)"

// httpTransport is the stock Transport over net/http.
type httpTransport struct {
	client *http.Client
}

func newHTTPTransport(timeout time.Duration) *httpTransport {
	return &httpTransport{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// Get implements Transport.
func (t *httpTransport) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
	}, nil
}
