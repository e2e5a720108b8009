// internal/infra/telegram/notifier.go
package telegram

import (
	"errors"
	"fmt"

	domainTelegram "surf_class_notifier/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Notifier fans a digest out to every configured recipient. Each
// recipient is attempted independently; one failing chat never blocks
// the others.
type Notifier struct {
	client     domainTelegram.Client
	recipients []int64
	logger     *logrus.Logger
}

func NewNotifier(client domainTelegram.Client, recipients []int64, logger *logrus.Logger) *Notifier {
	return &Notifier{
		client:     client,
		recipients: recipients,
		logger:     logger,
	}
}

// Broadcast sends the text to all recipients and returns a joined error
// when any of them failed. Callers use a nil return as the signal that
// delivery completed as a whole and sessions may be marked sent.
func (n *Notifier) Broadcast(text string) error {
	options := &telebot.SendOptions{
		ParseMode:             telebot.ModeMarkdown,
		DisableWebPagePreview: true,
	}

	var failures []error
	for _, chatID := range n.recipients {
		if err := n.client.SendMessage(chatID, text, options); err != nil {
			n.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to deliver digest to recipient")
			failures = append(failures, fmt.Errorf("chat %d: %w", chatID, err))
			continue
		}
		n.logger.WithField("chat_id", chatID).Debug("Digest delivered to recipient")
	}
	return errors.Join(failures...)
}
