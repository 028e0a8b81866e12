package nextbike

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/biketrail/biketrail/pkg/util"
)

const DefaultEndpoint = "https://api.nextbike.net/maps/nextbike-live.json?city=271"

// Client fetches live fleet snapshots from the nextbike maps API.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		Endpoint:   util.GetEnvironmentVariable("BIKETRAIL_NEXTBIKE_ENDPOINT", DefaultEndpoint),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the raw snapshot document, retrying transient
// failures for a short while. Failures here are never fatal, the
// caller just skips the poll cycle.
func (c *Client) Fetch() ([]byte, error) {
	var body []byte

	operation := func() error {
		resp, err := c.HTTPClient.Get(c.Endpoint)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.Endpoint)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 1 * time.Minute

	if err := backoff.Retry(operation, retryPolicy); err != nil {
		return nil, err
	}

	return body, nil
}
