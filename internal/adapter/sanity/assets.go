package sanity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// FindImageAsset returns the id of the first image asset whose original
// filename starts with prefix.
func (c *Client) FindImageAsset(ctx context.Context, prefix string) (string, error) {
	var resp queryResponse[*string]
	q := `*[_type == "sanity.imageAsset" && originalFilename match $prefix][0]._id`
	if err := c.query(ctx, q, map[string]any{"prefix": prefix + "*"}, &resp); err != nil {
		return "", err
	}
	if resp.Result == nil || *resp.Result == "" {
		return "", fmt.Errorf("sanity: image asset %q: %w", prefix, domain.ErrNotFound)
	}
	return *resp.Result, nil
}

// UploadImage uploads raw image bytes and returns the asset document id.
func (c *Client) UploadImage(ctx context.Context, data []byte, contentType, filename string) (string, error) {
	u := c.endpoint("assets/images") + "?filename=" + url.QueryEscape(filename)

	body, err := c.do(ctx, http.MethodPost, u, data, contentType)
	if err != nil {
		return "", fmt.Errorf("sanity: upload %s: %w", filename, err)
	}

	var resp assetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("sanity: decode upload response: %w", err)
	}
	if resp.Document.ID == "" {
		return "", fmt.Errorf("sanity: upload %s: no asset id in response", filename)
	}

	c.log.InfoContext(ctx, "image uploaded",
		slog.String("filename", filename),
		slog.String("asset", resp.Document.ID),
		slog.Int("bytes", len(data)),
	)
	return resp.Document.ID, nil
}
