package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	stderrors "bakery-storefront/internal/common/errors"
)

const mediaPath = "/wp-json/wp/v2/media"

// Media is the backend-assigned identity of an uploaded reference image.
// It has no lifecycle of its own: it exists only inside one relay request.
type Media struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
}

// uploadErrorMessages is the explicit finite mapping from the backend's
// error vocabulary to displayable text. Unknown codes fall through to the
// backend's own message or the generic fallback.
var uploadErrorMessages = map[string]struct {
	code    stderrors.ErrorCode
	message string
}{
	"rest_cannot_create": {
		stderrors.ErrCodeUploadForbidden,
		"Image uploads are disabled for this site or the configured user has no permission to upload media.",
	},
	"incorrect_password": {
		stderrors.ErrCodeUploadAuthFailed,
		"The content backend rejected the application password. Check the configured credentials.",
	},
	"invalid_username": {
		stderrors.ErrCodeUploadAuthFailed,
		"The content backend rejected the application password. Check the configured credentials.",
	},
}

const genericUploadMessage = "The reference image could not be uploaded. Please try again."

// UploadMedia relays the reference image bytes to the backend's media
// endpoint, preserving the original filename and content type.
func (c *Client) UploadMedia(ctx context.Context, filename, contentType string, data []byte) (*Media, error) {
	req, err := c.newRequest(ctx, http.MethodPost, mediaPath, bytes.NewReader(data))
	if err != nil {
		return nil, stderrors.NewUploadFailedError(stderrors.ErrCodeUploadFailed, genericUploadMessage, err.Error())
	}
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, stderrors.NewUploadFailedError(stderrors.ErrCodeUploadFailed, genericUploadMessage, err.Error())
	}
	body := readBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, translateUploadError(resp.StatusCode, body)
	}

	var media Media
	if err := json.Unmarshal(body, &media); err != nil {
		return nil, stderrors.NewUploadFailedError(stderrors.ErrCodeUploadFailed, genericUploadMessage,
			fmt.Sprintf("decode media response: %v", err))
	}

	c.logger.Info("reference image uploaded", map[string]interface{}{
		"mediaId": media.ID,
		"bytes":   len(data),
	})
	return &media, nil
}

// DeleteMedia is the best-effort cleanup call for media orphaned by a later
// dispatch failure. force=true skips the WordPress trash.
func (c *Client) DeleteMedia(ctx context.Context, id int) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/%d?force=true", mediaPath, id), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	readBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delete media %d: backend returned %d", id, resp.StatusCode)
	}
	return nil
}

// translateUploadError maps a non-2xx media response to a displayable error.
// Known codes get specific messages; otherwise the backend's own message is
// echoed, then a short raw body, then the generic fallback.
func translateUploadError(status int, body []byte) *stderrors.StandardError {
	details := fmt.Sprintf("media upload returned %d: %s", status, truncate(body, 512))

	var restErr restError
	if err := json.Unmarshal(body, &restErr); err == nil && restErr.Code != "" {
		if known, ok := uploadErrorMessages[restErr.Code]; ok {
			return stderrors.NewUploadFailedError(known.code, known.message, details)
		}
		if restErr.Message != "" {
			return stderrors.NewUploadFailedError(stderrors.ErrCodeUploadFailed, restErr.Message, details)
		}
	}

	if len(body) > 0 && len(body) <= 256 {
		return stderrors.NewUploadFailedError(stderrors.ErrCodeUploadFailed, string(body), details)
	}
	return stderrors.NewUploadFailedError(stderrors.ErrCodeUploadFailed, genericUploadMessage, details)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
