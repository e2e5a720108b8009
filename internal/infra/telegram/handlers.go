// internal/infra/telegram/handlers.go
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"surf_class_notifier/internal/domain/class"
	"surf_class_notifier/internal/domain/digest"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands wires the small inbound command surface. The bot
// is primarily an outbound notifier; these exist for setup (/start
// echoes the chat ID needed in TELEGRAM_CHAT_IDS) and quick checks.
func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	sessionRepo class.Repository,
	baseLogger *logrus.Entry,
) {
	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		baseLogger.WithField("command", "/start").WithField("sender_id", senderID).Info("Processing /start command")
		return c.Send(fmt.Sprintf(
			"Hi %s! I announce newly published surf classes. This chat's ID is %d — add it to TELEGRAM_CHAT_IDS to receive digests here.",
			c.Sender().FirstName, c.Chat().ID,
		))
	})

	b.Handle("/upcoming", func(c telebot.Context) error {
		logCtx := baseLogger.WithField("command", "/upcoming").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing /upcoming command")

		today := time.Now().Format("2006-01-02")
		pending, err := sessionRepo.ListPending(ctx, today)
		if err != nil {
			logCtx.WithError(err).Error("Could not list pending sessions")
			return c.Send("Could not read today's classes, please try again later.")
		}
		if len(pending) == 0 {
			return c.Send("No unannounced classes for today.")
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Unannounced classes for %s:\n", today)
		for _, s := range pending {
			fmt.Fprintf(&b, "%s: %s with %s\n", s.TimeRange, digest.TitleCase(s.ClassName), digest.TitleCase(s.CoachName))
		}
		return c.Send(b.String())
	})
}
