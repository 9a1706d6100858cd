package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/weather"
)

// EmailConfig holds SMTP settings for alert delivery.
type EmailConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	To       string
}

// EmailNotifier delivers temperature alerts over SMTP. Delivery is
// fire-and-forget from the pipeline's point of view: the caller logs a failed
// Send and moves on.
type EmailNotifier struct {
	cfg EmailConfig
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

// Send emails one alert event.
func (n *EmailNotifier) Send(_ context.Context, ev weather.AlertEvent) error {
	if n.cfg.Server == "" || n.cfg.Port == 0 || n.cfg.Username == "" || n.cfg.To == "" {
		return fmt.Errorf("email notifier is not fully configured")
	}

	subject := fmt.Sprintf("Weather alert: %s at %.1f°C", ev.Location, ev.Temperature)
	body := fmt.Sprintf(
		"Temperature in %s exceeded %.1f°C for %d consecutive readings (latest: %.1f°C).",
		ev.Location, ev.Threshold, ev.Consecutive, ev.Temperature,
	)
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s\r\n", n.cfg.To, subject, body))

	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Server)
	addr := fmt.Sprintf("%s:%d", n.cfg.Server, n.cfg.Port)

	if err := smtp.SendMail(addr, auth, n.cfg.Username, []string{n.cfg.To}, msg); err != nil {
		return fmt.Errorf("failed to send alert email for %s: %w", ev.Location, err)
	}
	return nil
}

// LogNotifier writes alerts to the application log instead of sending them.
// Used when SMTP is not configured.
type LogNotifier struct {
	Logf func(format string, args ...interface{})
}

func (n *LogNotifier) Send(_ context.Context, ev weather.AlertEvent) error {
	n.Logf("ALERT: %s at %.1f°C exceeded %.1f°C for %d consecutive readings",
		ev.Location, ev.Temperature, ev.Threshold, ev.Consecutive)
	return nil
}
