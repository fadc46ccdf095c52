package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/logger"
	"github.com/julianstephens/hybridmaster/internal/models"
)

// Alerter signals the end of a rest period
type Alerter interface {
	Alert(ctx context.Context, text string) error
}

// Notifier fans a rest-finished alert out to every configured alerter
type Notifier struct {
	alerters []Alerter
}

func New(alerters ...Alerter) *Notifier {
	return &Notifier{alerters: alerters}
}

// FromSettings builds the alerters the user enabled: the terminal bell on
// out and the desktop companion.
func FromSettings(settings models.Settings, out io.Writer) *Notifier {
	var alerters []Alerter
	if settings.BellEnabled && out != nil {
		alerters = append(alerters, NewBell(out))
	}
	if settings.NotificationsEnabled {
		alerters = append(alerters, NewTray())
	}
	return New(alerters...)
}

// Enabled reports whether any alerter is configured
func (n *Notifier) Enabled() bool {
	return n != nil && len(n.alerters) > 0
}

// Alert runs every alerter and joins their failures. A desktop companion
// that is not running is not a failure.
func (n *Notifier) Alert(ctx context.Context, text string) error {
	if n == nil {
		return nil
	}
	var errs error
	for _, a := range n.alerters {
		err := a.Alert(ctx, text)
		if errors.Is(err, ErrTrayNotRunning) {
			logger.Debug("desktop companion not running, skipping notification")
			continue
		}
		errs = multierr.Append(errs, err)
	}
	return errs
}

// RestFinished alerts that the rest for label is over
func (n *Notifier) RestFinished(ctx context.Context, label string) error {
	return n.Alert(ctx, RestFinishedText(label))
}

// RestFinishedText is the message shown when a rest period ends
func RestFinishedText(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return constants.TimerFinishedText
	}
	return fmt.Sprintf("%s Next: %s", constants.TimerFinishedText, label)
}

// Bell rings the terminal bell, the terminal's stand-in for vibration
type Bell struct {
	w io.Writer
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Alert(_ context.Context, _ string) error {
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		return fmt.Errorf("failed to ring bell: %w", err)
	}
	return nil
}
