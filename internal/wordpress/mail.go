package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	stderrors "bakery-storefront/internal/common/errors"
)

const sendEmailPath = "/wp-json/morty/v1/send-email"

// EmailRequest is the JSON body of the backend's custom mail-dispatch route.
type EmailRequest struct {
	To          string `json:"to"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	Attachments []int  `json:"attachments,omitempty"`
}

// sendEmailResponse carries both failure layers: the transport status is
// checked separately, and this body's success flag can still report an
// application-level failure on a 200.
type sendEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Message string `json:"message"`
	} `json:"data"`
}

// SendEmail delegates notification delivery to the content backend's mailer.
func (c *Client) SendEmail(ctx context.Context, email *EmailRequest) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return stderrors.NewDispatchFailedError("", fmt.Sprintf("marshal email request: %v", err))
	}

	req, err := c.newRequest(ctx, http.MethodPost, sendEmailPath, bytes.NewReader(payload))
	if err != nil {
		return stderrors.NewDispatchFailedError("", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return stderrors.NewDispatchFailedError("", err.Error())
	}
	body := readBody(resp)

	var decoded sendEmailResponse
	parseErr := json.Unmarshal(body, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		details := fmt.Sprintf("mail dispatch returned %d: %s", resp.StatusCode, truncate(body, 512))
		return stderrors.NewDispatchFailedError(dispatchMessage(parseErr == nil, &decoded), details)
	}

	if parseErr != nil {
		return stderrors.NewDispatchFailedError("", fmt.Sprintf("decode mail response: %v", parseErr))
	}
	if !decoded.Success {
		details := fmt.Sprintf("backend reported dispatch failure: %s", truncate(body, 512))
		return stderrors.NewDispatchFailedError(dispatchMessage(true, &decoded), details)
	}

	c.logger.Info("order notification dispatched", map[string]interface{}{
		"to":      email.To,
		"subject": email.Subject,
	})
	return nil
}

// dispatchMessage picks the most specific backend-provided message, leaving
// the generic fallback to the error constructor when none exists.
func dispatchMessage(parsed bool, decoded *sendEmailResponse) string {
	if !parsed {
		return ""
	}
	if decoded.Data.Message != "" {
		return decoded.Data.Message
	}
	return decoded.Message
}
