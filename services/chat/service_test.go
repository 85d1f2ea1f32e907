package chat

import (
	"context"
	"testing"

	"classhub/errs"
	"classhub/models"
	"classhub/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConversationRepo struct {
	conversations map[string]*models.Conversation
	messages      []models.ConversationMessage
}

func (f *fakeConversationRepo) GetByID(id string) (*models.Conversation, error) {
	return f.conversations[id], nil
}

func (f *fakeConversationRepo) GetByOwner(ownerID string) (*models.Conversation, error) {
	for _, c := range f.conversations {
		if c.OwnerID == ownerID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationRepo) Create(c *models.Conversation) error {
	f.conversations[c.ID] = c
	return nil
}

func (f *fakeConversationRepo) AppendMessage(m *models.ConversationMessage) error {
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeConversationRepo) GetMessages(conversationID string) ([]models.ConversationMessage, error) {
	var out []models.ConversationMessage
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeBus struct {
	events []realtime.Event
}

func (f *fakeBus) Publish(room, name string, payload any) {
	f.events = append(f.events, realtime.Event{Room: room, Name: name, Payload: payload})
}

type fakePush struct {
	dispatchedTo []string
}

func (f *fakePush) Subscribe(ctx context.Context, userID, endpoint, p256dh, auth string) error {
	return nil
}

func (f *fakePush) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	return nil
}

func (f *fakePush) Dispatch(ctx context.Context, userID string, n models.Notification) error {
	f.dispatchedTo = append(f.dispatchedTo, userID)
	return nil
}

func newChatFixture() (*fakeConversationRepo, *fakeBus, *fakePush, *DefaultChatService) {
	repo := &fakeConversationRepo{conversations: map[string]*models.Conversation{}}
	bus := &fakeBus{}
	push := &fakePush{}
	svc := &DefaultChatService{Repo: repo, Bus: bus, Push: push, Logger: zap.NewNop()}
	return repo, bus, push, svc
}

var (
	owner = models.Actor{ID: "parent-1", Role: models.RoleParent}
	staff = models.Actor{ID: "staff-1", Role: models.RoleStaff}
)

func TestStartConversationIsIdempotent(t *testing.T) {
	repo, _, _, svc := newChatFixture()

	first, err := svc.StartConversation(context.Background(), "parent-1")
	require.NoError(t, err)
	second, err := svc.StartConversation(context.Background(), "parent-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.conversations, 1)
}

func TestAppendMessagePersistsAndPublishes(t *testing.T) {
	repo, bus, _, svc := newChatFixture()
	conversation, err := svc.StartConversation(context.Background(), "parent-1")
	require.NoError(t, err)

	message, err := svc.AppendMessage(context.Background(), owner, conversation.ID, "hello")
	require.NoError(t, err)

	assert.Equal(t, "parent-1", message.SenderID)
	require.Len(t, repo.messages, 1)

	require.Len(t, bus.events, 1)
	assert.Equal(t, EventChatMessage, bus.events[0].Name)
	assert.Equal(t, realtime.ConversationRoom(conversation.ID), bus.events[0].Room)
}

func TestAppendMessageFromStaffPushesToOwner(t *testing.T) {
	_, _, push, svc := newChatFixture()
	conversation, err := svc.StartConversation(context.Background(), "parent-1")
	require.NoError(t, err)

	_, err = svc.AppendMessage(context.Background(), staff, conversation.ID, "see you tomorrow")
	require.NoError(t, err)

	assert.Equal(t, []string{"parent-1"}, push.dispatchedTo)
}

func TestAppendMessageFromOwnerSendsNoPush(t *testing.T) {
	_, _, push, svc := newChatFixture()
	conversation, err := svc.StartConversation(context.Background(), "parent-1")
	require.NoError(t, err)

	_, err = svc.AppendMessage(context.Background(), owner, conversation.ID, "thanks")
	require.NoError(t, err)

	assert.Empty(t, push.dispatchedTo)
}

func TestAppendMessageRejectsBlankBody(t *testing.T) {
	_, bus, _, svc := newChatFixture()
	conversation, err := svc.StartConversation(context.Background(), "parent-1")
	require.NoError(t, err)

	_, err = svc.AppendMessage(context.Background(), owner, conversation.ID, "   ")
	var validation *errs.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Empty(t, bus.events)
}

func TestAppendMessageUnknownConversation(t *testing.T) {
	_, _, _, svc := newChatFixture()

	_, err := svc.AppendMessage(context.Background(), owner, "nope", "hello")
	var notFound *errs.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAppendMessageForbiddenForOtherUsers(t *testing.T) {
	_, _, _, svc := newChatFixture()
	conversation, err := svc.StartConversation(context.Background(), "parent-1")
	require.NoError(t, err)

	intruder := models.Actor{ID: "parent-2", Role: models.RoleParent}
	_, err = svc.AppendMessage(context.Background(), intruder, conversation.ID, "hi")
	var forbidden *errs.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestGetMessagesVisibility(t *testing.T) {
	_, _, _, svc := newChatFixture()
	conversation, err := svc.StartConversation(context.Background(), "parent-1")
	require.NoError(t, err)
	_, err = svc.AppendMessage(context.Background(), owner, conversation.ID, "first")
	require.NoError(t, err)
	_, err = svc.AppendMessage(context.Background(), staff, conversation.ID, "second")
	require.NoError(t, err)

	messages, err := svc.GetMessages(context.Background(), staff, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Body)

	intruder := models.Actor{ID: "parent-2", Role: models.RoleParent}
	_, err = svc.GetMessages(context.Background(), intruder, conversation.ID)
	var forbidden *errs.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}
