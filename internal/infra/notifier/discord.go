package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"

	"newsreel/internal/domain/entity"
)

// Discord embed colors per run status.
const (
	discordGreen = 0x2ecc71
	discordRed   = 0xe74c3c
	discordGray  = 0x95a5a6
)

// Discord posts run summaries to a Discord webhook as an embed.
type Discord struct {
	webhookURL string
	client     *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewDiscord creates a Discord notifier. Discord webhooks allow 30
// requests per minute; one every two seconds stays comfortably under.
func NewDiscord(webhookURL string, logger *slog.Logger) *Discord {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discord{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: webhookTimeout},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
		logger:     logger,
	}
}

func (d *Discord) Name() string { return "discord" }

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

func (d *Discord) NotifyRun(ctx context.Context, j *entity.Job) error {
	color := discordGray
	switch j.Status {
	case entity.JobStatusCompleted:
		color = discordGreen
	case entity.JobStatusFailed:
		color = discordRed
	}

	body, err := json.Marshal(discordPayload{
		Embeds: []discordEmbed{{
			Title:       fmt.Sprintf("Run %s", j.Status),
			Description: runSummary(j),
			Color:       color,
		}},
	})
	if err != nil {
		return fmt.Errorf("discord payload: %w", err)
	}

	err = retry.Do(
		func() error {
			if err := d.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			return postWebhook(ctx, d.client, d.webhookURL, body)
		},
		retry.Attempts(webhookAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
	)
	if err != nil {
		return fmt.Errorf("discord notify: %w", err)
	}
	d.logger.Debug("discord notification sent", slog.String("job_id", j.ID))
	return nil
}
