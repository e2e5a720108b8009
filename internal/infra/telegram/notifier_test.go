package telegram

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type fakeClient struct {
	sent    []int64
	failFor map[int64]error
}

func (f *fakeClient) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	if err, ok := f.failFor[recipientChatID]; ok {
		return err
	}
	f.sent = append(f.sent, recipientChatID)
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestBroadcast_AllRecipients(t *testing.T) {
	client := &fakeClient{}
	notifier := NewNotifier(client, []int64{111, 222, 333}, testLogger())

	require.NoError(t, notifier.Broadcast("digest"))
	assert.Equal(t, []int64{111, 222, 333}, client.sent)
}

func TestBroadcast_PartialFailureStillReachesOthers(t *testing.T) {
	client := &fakeClient{failFor: map[int64]error{222: errors.New("blocked by user")}}
	notifier := NewNotifier(client, []int64{111, 222, 333}, testLogger())

	err := notifier.Broadcast("digest")
	require.Error(t, err, "any failed recipient must surface so the sessions stay pending")
	assert.Contains(t, err.Error(), "chat 222")
	assert.Equal(t, []int64{111, 333}, client.sent, "the failing chat must not block the rest")
}

func TestBroadcast_NoRecipients(t *testing.T) {
	client := &fakeClient{}
	notifier := NewNotifier(client, nil, testLogger())

	assert.NoError(t, notifier.Broadcast("digest"))
	assert.Empty(t, client.sent)
}
