package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// SMSSender доставляет текстовое сообщение на номер телефона.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

type SMSConfig struct {
	APIKey string
	APIURL string
	// RatePerSecond ограничивает исходящие запросы к шлюзу; 0 - без ограничения.
	RatePerSecond float64
	Burst         int
}

type httpSMSSender struct {
	apiKey  string
	apiURL  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewSMSSender без APIKey работает в режиме разработки: код пишется в лог, отправка считается успешной.
func NewSMSSender(cfg SMSConfig, client *http.Client, logger *slog.Logger) SMSSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return &httpSMSSender{
		apiKey:  cfg.APIKey,
		apiURL:  cfg.APIURL,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (s *httpSMSSender) Send(ctx context.Context, phone, message string) error {
	if s.apiKey == "" {
		s.logger.InfoContext(ctx, "SMS (development mode)", slog.String("to", phone), slog.String("message", message))
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("sms rate limiter: %w", err)
	}

	body, err := json.Marshal(smsRequest{To: phone, Message: message})
	if err != nil {
		return fmt.Errorf("failed to encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// шлюзы отвечают и 201/202 Accepted
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway responded with status %d", resp.StatusCode)
	}
	return nil
}
