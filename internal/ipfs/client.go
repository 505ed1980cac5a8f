package ipfs

import (
	"bytes"
	"context"
	"fmt"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/amiyamandal-dev/newscms/internal/domain"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

// Client wraps the IPFS HTTP API client as the article image store.
// Uploads return a gateway URL plus the CID as the opaque public id;
// destroy unpins by CID.
type Client struct {
	shell      *shell.Shell
	gatewayURL string
	pinContent bool
	logger     *logger.Logger
}

// NewClient creates a new IPFS-backed image store client
func NewClient(apiEndpoint, gatewayURL string, timeout time.Duration, pinContent bool, log *logger.Logger) *Client {
	sh := shell.NewShell(apiEndpoint)
	sh.SetTimeout(timeout)

	return &Client{
		shell:      sh,
		gatewayURL: gatewayURL,
		pinContent: pinContent,
		logger:     log.WithComponent("ipfs-client"),
	}
}

// Upload transfers the file to IPFS and returns its gateway URL and CID.
// The call is synchronous; it returns only once the transfer completed or
// failed.
func (c *Client) Upload(ctx context.Context, data []byte) (string, string, error) {
	cid, err := c.shell.Add(bytes.NewReader(data))
	if err != nil {
		c.logger.Error("Failed to add image to IPFS", "error", err)
		return "", "", domain.ErrImageUploadFailed
	}

	if c.pinContent {
		if err := c.shell.Pin(cid); err != nil {
			c.logger.Warn("Failed to pin image", "cid", cid, "error", err)
			// Content is already uploaded; pinning is not required for success
		}
	}

	c.logger.Debug("Uploaded image to IPFS", "cid", cid, "size", len(data))

	return fmt.Sprintf("%s/%s", c.gatewayURL, cid), cid, nil
}

// Destroy unpins the image so it becomes eligible for garbage collection.
// Callers treat a failure here as non-fatal.
func (c *Client) Destroy(ctx context.Context, cid string) error {
	if cid == "" {
		return nil // Nothing to unpin
	}

	if err := c.shell.Unpin(cid); err != nil {
		c.logger.Warn("Failed to unpin image", "cid", cid, "error", err)
		return fmt.Errorf("failed to unpin %s: %w", cid, err)
	}

	c.logger.Debug("Unpinned image", "cid", cid)
	return nil
}

// IsHealthy checks if the IPFS daemon is reachable
func (c *Client) IsHealthy(ctx context.Context) bool {
	if _, err := c.shell.ID(); err != nil {
		c.logger.Warn("IPFS health check failed", "error", err)
		return false
	}
	return true
}
