package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/AngelCh415/outreach-analytics/internal/utils"
)

var retryPolicy = utils.NewBackoff(100*time.Millisecond, 2).WithJitter(150 * time.Millisecond)

// GetJSONWithRetry decodes the JSON body at url into dst, retrying transport
// errors and 5xx/429 answers with exponential backoff and jitter.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any) error {
	if url == "" {
		return errors.New("empty url")
	}
	return retryPolicy.Do(ctx, func(int) error {
		err := getJSON(ctx, c, url, dst)
		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			// un 4xx no cambia reintentando
			return utils.Permanent(err)
		}
		return err
	})
}
