package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"estatehub/internal/models/request_models"
	"estatehub/pkg/utils"
)

type ContactServiceInterface interface {
	Submit(ctx context.Context, request request_models.ContactRequest) error
}

type contactPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type ContactService struct {
	webhookURL string
	client     *http.Client
	now        func() time.Time
	log        *zap.Logger
}

func NewContactService(webhookURL string, client *http.Client, log *zap.Logger) ContactServiceInterface {
	return &ContactService{
		webhookURL: webhookURL,
		client:     client,
		now:        time.Now,
		log:        log,
	}
}

// Submit forwards the message to the form webhook. Any non-2xx answer is a
// delivery failure.
func (s *ContactService) Submit(ctx context.Context, request request_models.ContactRequest) error {
	if s.webhookURL == "" {
		s.log.Error("contact webhook is not configured")
		return utils.ErrContactDelivery
	}

	body, err := json.Marshal(contactPayload{
		Name:      request.Name,
		Email:     request.Email,
		Subject:   request.Subject,
		Message:   request.Message,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return utils.ErrContactDelivery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		s.log.Error("build contact request", zap.Error(err))
		return utils.ErrContactDelivery
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("contact webhook unreachable", zap.Error(err))
		return fmt.Errorf("%w: %v", utils.ErrContactDelivery, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		s.log.Warn("contact webhook rejected message", zap.Int("status", res.StatusCode))
		return fmt.Errorf("%w: status %d", utils.ErrContactDelivery, res.StatusCode)
	}
	return nil
}
