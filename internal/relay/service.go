// Package relay implements the server-side order relay: precondition check,
// optional media upload, notification composition and delegated delivery.
// The two outbound calls are strictly sequential; dispatch never runs when
// the upload was attempted and failed.
package relay

import (
	"context"
	"time"

	"bakery-storefront/internal/common/config"
	stderrors "bakery-storefront/internal/common/errors"
	"bakery-storefront/internal/common/logger"
	"bakery-storefront/internal/common/metrics"
	"bakery-storefront/internal/order"
	"bakery-storefront/internal/wordpress"

	"github.com/google/uuid"
)

// Submission is one order relay attempt: the validated form fields plus the
// optional reference image.
type Submission struct {
	Request order.Request
	Image   *order.ReferenceImage
}

// Result is the successful outcome of one relay attempt.
type Result struct {
	Reference string
	Message   string
}

const successMessage = "Your order was sent. We will contact you shortly to confirm the details."

type Service struct {
	backend config.BackendConfig
	orders  config.OrdersConfig
	wp      *wordpress.Client
	logger  logger.Logger
}

func NewService(cfg *config.Config, log logger.Logger) *Service {
	return &Service{
		backend: cfg.Backend,
		orders:  cfg.Orders,
		wp:      wordpress.NewClient(cfg.Backend, log),
		logger:  log.WithFields(map[string]interface{}{"component": "relay"}),
	}
}

// Process runs the upload -> compose -> dispatch sequence for one submission.
// Every returned error is a StandardError whose message is displayable.
func (s *Service) Process(ctx context.Context, sub *Submission) (*Result, error) {
	start := time.Now()
	metrics.OrdersReceived.Inc()

	result, err := s.process(ctx, sub)

	metrics.OrderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OrdersFailed.WithLabelValues(string(stderrors.CodeOf(err))).Inc()
	}
	return result, err
}

func (s *Service) process(ctx context.Context, sub *Submission) (*Result, error) {
	if err := s.checkPreconditions(); err != nil {
		s.logger.WithError(err).Error("order relay misconfigured", nil)
		return nil, err
	}

	if errs := s.validate(sub); len(errs) > 0 {
		return nil, stderrors.NewValidationFailedError(errs.Error())
	}

	reference := uuid.NewString()
	log := s.logger.WithFields(map[string]interface{}{"reference": reference})

	// Step 1: optional media relay. Any failure aborts the whole request.
	var media *wordpress.Media
	if sub.Image != nil && len(sub.Image.Data) > 0 {
		var err error
		media, err = s.wp.UploadMedia(ctx, sub.Image.Filename, sub.Image.ContentType, sub.Image.Data)
		if err != nil {
			metrics.MediaUploads.WithLabelValues("failed").Inc()
			log.WithError(err).Error("reference image relay failed", nil)
			return nil, err
		}
		metrics.MediaUploads.WithLabelValues("ok").Inc()
	}

	// Step 2: compose.
	imageURL := ""
	var attachments []int
	if media != nil {
		imageURL = media.SourceURL
		attachments = []int{media.ID}
	}
	html := order.ComposeHTML(&sub.Request, imageURL)

	// Step 3: delegate delivery.
	email := &wordpress.EmailRequest{
		To:          s.orders.Recipient,
		Subject:     order.ComposeSubject(&sub.Request),
		Message:     html,
		Attachments: attachments,
	}
	if err := s.wp.SendEmail(ctx, email); err != nil {
		log.WithError(err).Error("order notification dispatch failed", nil)
		s.cleanupOrphanedMedia(ctx, media, log)
		return nil, err
	}

	log.Info("order relayed", map[string]interface{}{
		"name":     sub.Request.Contact.Name,
		"hasImage": media != nil,
	})
	return &Result{Reference: reference, Message: successMessage}, nil
}

// checkPreconditions fails fast before any network call when one of the four
// required configuration values is absent.
func (s *Service) checkPreconditions() error {
	switch {
	case s.backend.BaseURL == "":
		return stderrors.NewConfigMissingError("backend.base_url")
	case s.backend.Username == "":
		return stderrors.NewConfigMissingError("backend.username")
	case s.backend.AppPassword == "":
		return stderrors.NewConfigMissingError("backend.app_password")
	case s.orders.Recipient == "":
		return stderrors.NewConfigMissingError("orders.recipient")
	}
	return nil
}

func (s *Service) validate(sub *Submission) order.ValidationErrors {
	errs := sub.Request.Validate(time.Now())
	errs = append(errs, sub.Image.Validate()...)
	return errs
}

// cleanupOrphanedMedia is the explicit saga compensation: when dispatch fails
// after a successful upload, one best-effort delete is attempted. Its own
// failure is logged and never changes the client-facing outcome.
func (s *Service) cleanupOrphanedMedia(ctx context.Context, media *wordpress.Media, log logger.Logger) {
	if media == nil {
		return
	}
	if err := s.wp.DeleteMedia(ctx, media.ID); err != nil {
		log.WithError(err).Warn("orphaned media cleanup failed", map[string]interface{}{
			"mediaId": media.ID,
		})
		return
	}
	log.Info("orphaned media cleaned up", map[string]interface{}{"mediaId": media.ID})
}
