package storage

import (
	"context"
	"errors"
	"time"

	"github.com/minio/minio-go/v7"
)

const checkTimeout = 10 * time.Second

// Health reports the outcome of a reachability check.
type Health struct {
	Reachable bool   `json:"reachable"`
	Reason    string `json:"reason,omitempty"`
}

// Check verifies the configured bucket is reachable with the configured
// credentials. Expected failure modes (auth failure, network failure,
// missing bucket) map to an unreachable Health value; Check never panics on
// them and never returns an error.
func (c *Client) Check(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return Health{Reachable: false, Reason: classifyCheckError(err)}
	}
	if !exists {
		return Health{Reachable: false, Reason: "bucket " + c.bucket + " does not exist"}
	}
	return Health{Reachable: true}
}

func classifyCheckError(err error) string {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch string(resp.Code) {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return "authentication failed: " + string(resp.Code)
		case "NoSuchBucket":
			return "bucket does not exist"
		}
		if resp.Code != "" {
			return string(resp.Code) + ": " + resp.Message
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "endpoint did not respond"
	}
	return err.Error()
}
