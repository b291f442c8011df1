package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/recallr/internal/memory"
)

// WebhookPayload is the JSON body posted for each reminder.
type WebhookPayload struct {
	Event       string           `json:"event"`
	GeneratedAt time.Time        `json:"generated_at"`
	Items       []WebhookDueItem `json:"items"`
}

type WebhookDueItem struct {
	ID            int64     `json:"id"`
	Content       string    `json:"content"`
	CategoryID    string    `json:"category_id,omitempty"`
	Difficulty    string    `json:"difficulty"`
	RetentionRate float64   `json:"retention_rate"`
	NextReviewAt  time.Time `json:"next_review_at"`
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("webhook response error %d: %s", e.code, e.body)
}

// retryable reports whether the webhook may succeed on a later attempt.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	return true
}

// WebhookNotifier posts reminders as JSON to a URL.
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
	clock      memory.Clock
	maxRetries uint
	retryDelay time.Duration
}

// WebhookOption customizes a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithRetryDelay sets the base delay of the exponential backoff.
func WithRetryDelay(d time.Duration) WebhookOption {
	return func(n *WebhookNotifier) { n.retryDelay = d }
}

// WithClock sets the clock used for the payload timestamp.
func WithClock(clock memory.Clock) WebhookOption {
	return func(n *WebhookNotifier) { n.clock = clock }
}

// NewWebhookNotifier creates a WebhookNotifier.
func NewWebhookNotifier(url string, timeout time.Duration, maxRetries uint, opts ...WebhookOption) *WebhookNotifier {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("User-Agent", "recallr")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	n := &WebhookNotifier{
		httpClient: client,
		url:        url,
		clock:      memory.SystemClock,
		maxRetries: maxRetries,
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts the due items, retrying server errors and rate limits.
func (n *WebhookNotifier) Notify(ctx context.Context, due []memory.Item) error {
	payload := WebhookPayload{
		Event:       "reviews_due",
		GeneratedAt: n.clock.Now(),
		Items:       make([]WebhookDueItem, 0, len(due)),
	}
	for _, item := range due {
		payload.Items = append(payload.Items, WebhookDueItem{
			ID:            item.ID,
			Content:       item.Content,
			CategoryID:    item.CategoryID,
			Difficulty:    string(item.Difficulty),
			RetentionRate: item.RetentionRate,
			NextReviewAt:  item.NextReviewAt,
		})
	}

	return retry.Do(
		func() error {
			err := n.post(ctx, payload)
			if err != nil && !retryable(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(n.maxRetries+1),
		retry.Delay(n.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			slog.Debug("retrying webhook", "attempt", attempt+1, "error", err)
		}),
	)
}

func (n *WebhookNotifier) post(ctx context.Context, payload WebhookPayload) error {
	res, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("httpClient.Post(%s) > %w", n.url, err)
	}
	if res.IsError() {
		return &statusError{code: res.StatusCode(), body: string(res.Body())}
	}
	return nil
}
