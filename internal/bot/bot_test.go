package bot

import (
	"context"
	"sort"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/the-umedov/moviebot/internal/membership"
	"github.com/the-umedov/moviebot/internal/model"
	"github.com/the-umedov/moviebot/internal/queue"
	"github.com/the-umedov/moviebot/internal/repository"
	"github.com/the-umedov/moviebot/internal/session"
)

// fakeAPI records every outbound Telegram call.  videoErr simulates a stale
// file_id; requestErr simulates a failing non-message API call such as
// approveChatJoinRequest.
type fakeAPI struct {
	sent       []tgbotapi.Chattable
	requests   []tgbotapi.Chattable
	videoErr   error
	requestErr error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if _, ok := c.(tgbotapi.VideoConfig); ok && f.videoErr != nil {
		return tgbotapi.Message{}, f.videoErr
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts returns the plain-text bodies of all sent messages, in order.
func (f *fakeAPI) texts() []string {
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

// videos returns all video sends, in order.
func (f *fakeAPI) videos() []tgbotapi.VideoConfig {
	var out []tgbotapi.VideoConfig
	for _, c := range f.sent {
		if v, ok := c.(tgbotapi.VideoConfig); ok {
			out = append(out, v)
		}
	}
	return out
}

// fakeStore is a map-backed MovieStore.
type fakeStore struct {
	movies    map[string]model.Movie
	upsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{movies: make(map[string]model.Movie)}
}

func (s *fakeStore) Upsert(_ context.Context, m *model.Movie) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.movies[m.Code] = *m
	return nil
}

func (s *fakeStore) GetByCode(_ context.Context, code string) (*model.Movie, error) {
	m, ok := s.movies[code]
	if !ok {
		return nil, repository.ErrMovieNotFound
	}
	return &m, nil
}

func (s *fakeStore) ListAll(_ context.Context) ([]model.Movie, error) {
	out := make([]model.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// toggleOracle lets a test flip membership mid-flow.
type toggleOracle struct {
	status membership.Status
}

func (o *toggleOracle) Status(context.Context, int64) membership.Status { return o.status }

const (
	testInvite    = "https://t.me/movies"
	testChannelID = "-1001234567890"
	testUserID    = int64(42)
	testChatID    = int64(42) // private chats share the user id
)

type fixture struct {
	api        *fakeAPI
	store      *fakeStore
	sessions   *session.MemoryStore
	oracle     *toggleOracle
	bot        *Bot
	published  []queue.MovieSavedEvent
	publishErr error
}

func newFixture(t *testing.T, channel string) *fixture {
	t.Helper()
	f := &fixture{
		api:      &fakeAPI{},
		store:    newFakeStore(),
		sessions: session.NewMemoryStore(),
		oracle:   &toggleOracle{status: membership.Member},
	}
	publish := func(_ context.Context, ev queue.MovieSavedEvent) error {
		if f.publishErr != nil {
			return f.publishErr
		}
		f.published = append(f.published, ev)
		return nil
	}
	gate := membership.NewGate(f.oracle, testInvite)
	f.bot = New(f.api, f.store, f.sessions, gate, channel, publish, zap.NewNop().Sugar())
	return f
}

func (f *fixture) state(t *testing.T) session.Session {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), testUserID)
	require.NoError(t, err)
	return s
}

func (f *fixture) send(msg *tgbotapi.Message) {
	f.bot.HandleUpdate(context.Background(), tgbotapi.Update{Message: msg})
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: testUserID, FirstName: "Tester"},
		Chat: &tgbotapi.Chat{ID: testChatID, Type: "private"},
		Text: text,
	}
}

func commandMessage(cmd string) *tgbotapi.Message {
	msg := textMessage(cmd)
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	return msg
}

func videoMessage(fileID string) *tgbotapi.Message {
	msg := textMessage("")
	msg.Video = &tgbotapi.Video{FileID: fileID}
	return msg
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: testUserID, FirstName: "Tester"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: testChatID, Type: "private"}},
		Data:    data,
	}}
}

func joinRequestUpdate(chatID int64, username string, userID int64) tgbotapi.Update {
	return tgbotapi.Update{ChatJoinRequest: &tgbotapi.ChatJoinRequest{
		Chat: tgbotapi.Chat{ID: chatID, UserName: username, Type: "channel"},
		From: tgbotapi.User{ID: userID},
	}}
}

func containsSubstring(texts []string, sub string) bool {
	for _, s := range texts {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestStartCommandGreetsMembers(t *testing.T) {
	f := newFixture(t, testChannelID)

	f.send(commandMessage("/start"))

	texts := f.api.texts()
	require.NotEmpty(t, texts)
	assert.Contains(t, texts[0], "Tester")
	// The greeting carries the main menu keyboard.
	msg := f.api.sent[0].(tgbotapi.MessageConfig)
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, kb.InlineKeyboard, 2)
}

func TestStartCommandDeniedShowsJoinPrompt(t *testing.T) {
	f := newFixture(t, testChannelID)
	f.oracle.status = membership.NotMember

	f.send(commandMessage("/start"))

	texts := f.api.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "member of our channel")
	msg := f.api.sent[0].(tgbotapi.MessageConfig)
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotEmpty(t, kb.InlineKeyboard[0])
	require.NotNil(t, kb.InlineKeyboard[0][0].URL)
	assert.Equal(t, testInvite, *kb.InlineKeyboard[0][0].URL)
}

func TestForwardedChannelPostResolvesID(t *testing.T) {
	f := newFixture(t, testChannelID)

	msg := textMessage("whatever")
	msg.ForwardFromChat = &tgbotapi.Chat{ID: -1009999, Type: "channel"}
	f.send(msg)

	assert.True(t, containsSubstring(f.api.texts(), "-1009999"))
}

func TestCheckSubCallbackRechecks(t *testing.T) {
	f := newFixture(t, testChannelID)
	f.oracle.status = membership.NotMember

	f.bot.HandleUpdate(context.Background(), callbackUpdate(callbackCheckSub))
	assert.True(t, containsSubstring(f.api.texts(), "member of our channel"))

	// User joins, presses the button again.
	f.oracle.status = membership.Member
	f.bot.HandleUpdate(context.Background(), callbackUpdate(callbackCheckSub))
	assert.True(t, containsSubstring(f.api.texts(), "Tester"))

	// Both callbacks were answered.
	answered := 0
	for _, r := range f.api.requests {
		if _, ok := r.(tgbotapi.CallbackConfig); ok {
			answered++
		}
	}
	assert.Equal(t, 2, answered)
}

func TestAllMoviesCallbackListsCatalogue(t *testing.T) {
	f := newFixture(t, testChannelID)
	f.store.movies["A12"] = model.Movie{Code: "A12", Title: "Fast & Furious 7", Kind: model.KindLink, Payload: "https://example.com/v"}
	f.store.movies["B1"] = model.Movie{Code: "B1", Title: "Inception", Kind: model.KindVideo, Payload: "file-id"}

	f.bot.HandleUpdate(context.Background(), callbackUpdate(callbackAllMovies))

	texts := f.api.texts()
	require.NotEmpty(t, texts)
	assert.Contains(t, texts[0], "A12")
	assert.Contains(t, texts[0], "Inception")
}

func TestAllMoviesCallbackEmptyCatalogue(t *testing.T) {
	f := newFixture(t, testChannelID)

	f.bot.HandleUpdate(context.Background(), callbackUpdate(callbackAllMovies))

	assert.True(t, containsSubstring(f.api.texts(), "No movies"))
}
