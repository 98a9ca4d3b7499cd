package telegram

import (
	"context"
	"testing"

	"github.com/go-telegram/bot/models"
	messageDomain "github.com/reshetovitsme/channel-mirror/internal/modules/message/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	events []messageDomain.InboundEvent
}

func (r *recordingDispatcher) Dispatch(_ context.Context, event messageDomain.InboundEvent) {
	r.events = append(r.events, event)
}

func channelPost(id int) *models.Message {
	return &models.Message{
		ID:   id,
		Chat: models.Chat{ID: -1001111111111, Type: "channel", Username: "mirror_source"},
	}
}

func TestHandleUpdate_RoutesChannelPosts(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	h := New(dispatcher)

	post := channelPost(1)
	post.Text = "hello"
	edited := channelPost(1)
	edited.Text = "hello, edited"
	edited.EditDate = 1700000000

	h.HandleUpdate(context.Background(), nil, &models.Update{ChannelPost: post})
	h.HandleUpdate(context.Background(), nil, &models.Update{EditedChannelPost: edited})
	h.HandleUpdate(context.Background(), nil, &models.Update{Message: channelPost(2)})
	h.HandleUpdate(context.Background(), nil, nil)

	require.Len(t, dispatcher.events, 2)
	assert.Equal(t, messageDomain.EventKindNewPost, dispatcher.events[0].Kind)
	assert.Equal(t, messageDomain.EventKindEditedPost, dispatcher.events[1].Kind)
	assert.Equal(t, 1700000000, dispatcher.events[1].EditDate)
	assert.NotEqual(t, dispatcher.events[0].DedupKey(), dispatcher.events[1].DedupKey())
}

func TestToEvent_PayloadKinds(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(m *models.Message)
		kind     messageDomain.PayloadKind
		mediaRef string
	}{
		{"text", func(m *models.Message) { m.Text = "hi" }, messageDomain.PayloadKindText, ""},
		{"largest photo", func(m *models.Message) {
			m.Photo = []models.PhotoSize{{FileID: "small", Width: 90}, {FileID: "medium", Width: 320}, {FileID: "large", Width: 1280}}
		}, messageDomain.PayloadKindPhoto, "large"},
		{"video", func(m *models.Message) { m.Video = &models.Video{FileID: "vid"} }, messageDomain.PayloadKindVideo, "vid"},
		{"animation before document", func(m *models.Message) {
			m.Animation = &models.Animation{FileID: "gif"}
			m.Document = &models.Document{FileID: "gif-doc"}
		}, messageDomain.PayloadKindAnimation, "gif"},
		{"document", func(m *models.Message) { m.Document = &models.Document{FileID: "doc"} }, messageDomain.PayloadKindDocument, "doc"},
		{"audio", func(m *models.Message) { m.Audio = &models.Audio{FileID: "song"} }, messageDomain.PayloadKindAudio, "song"},
		{"other", func(m *models.Message) {}, messageDomain.PayloadKindOther, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := channelPost(5)
			tt.mutate(msg)

			event := ToEvent(messageDomain.EventKindNewPost, msg)
			assert.Equal(t, tt.kind, event.Payload)
			assert.Equal(t, tt.mediaRef, event.MediaRef)
		})
	}
}

func TestToEvent_CopiesAlbumFields(t *testing.T) {
	msg := channelPost(10)
	msg.MediaGroupID = "13579"
	msg.Caption = "Launch day"
	msg.CaptionEntities = []models.MessageEntity{{Type: models.MessageEntityTypeBold, Offset: 0, Length: 6}}
	msg.Photo = []models.PhotoSize{{FileID: "p"}}

	event := ToEvent(messageDomain.EventKindNewPost, msg)

	assert.Equal(t, int64(-1001111111111), event.ChannelID)
	assert.Equal(t, "mirror_source", event.ChannelUsername)
	assert.Equal(t, 10, event.MessageID)
	assert.True(t, event.IsGrouped())
	assert.Equal(t, "13579", event.MediaGroupID)
	assert.Equal(t, "Launch day", event.Caption)
	assert.Len(t, event.CaptionEntities, 1)
}
