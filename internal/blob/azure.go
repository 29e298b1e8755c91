// Package blob uploads event images to Azure Blob Storage and returns
// their public URLs.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/google/uuid"
)

// ErrNotConfigured is returned by NewClientFromEnv when no connection
// string is set; the upload endpoint then reports a server error.
var ErrNotConfigured = errors.New("blob storage not configured")

// Client wraps the Azure Blob service client for a single container.
type Client struct {
	svc       *azblob.Client
	container string
}

// NewClientFromEnv builds a Client from AZURE_STORAGE_CONNECTION_STRING
// and AZURE_CONTAINER_NAME (default "media").
func NewClientFromEnv() (*Client, error) {
	conn := os.Getenv("AZURE_STORAGE_CONNECTION_STRING")
	if conn == "" {
		return nil, ErrNotConfigured
	}
	container := os.Getenv("AZURE_CONTAINER_NAME")
	if container == "" {
		container = "media"
	}
	svc, err := azblob.NewClientFromConnectionString(conn, nil)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, container: container}, nil
}

// UploadImage streams the file to the container under a
// "<uuid>-<filename>" blob name and returns the blob URL.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + "-" + filename
	if _, err := c.svc.UploadStream(ctx, c.container, name, r, nil); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(c.svc.URL(), "/")
	return fmt.Sprintf("%s/%s/%s", base, c.container, name), nil
}
