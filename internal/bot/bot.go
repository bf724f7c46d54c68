// Package bot implements the Telegram front-end: command handling, the
// three-step movie submission wizard, code lookup and the join-request
// auto-approver.  Every user-facing path consults the membership gate before
// doing anything else; only the approver is exempt because it exists to let
// users become members in the first place.
package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/the-umedov/moviebot/internal/membership"
	"github.com/the-umedov/moviebot/internal/model"
	"github.com/the-umedov/moviebot/internal/queue"
	"github.com/the-umedov/moviebot/internal/session"
)

// telegramAPI is the slice of the Telegram client the handlers need.
// *tgbotapi.BotAPI satisfies it; tests inject a recording fake.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MovieStore is the persistence surface the bot depends on.  It is
// implemented by repository.MovieRepo and by in-memory fakes in tests.
type MovieStore interface {
	Upsert(ctx context.Context, m *model.Movie) error
	GetByCode(ctx context.Context, code string) (*model.Movie, error)
	ListAll(ctx context.Context) ([]model.Movie, error)
}

// Publisher sends a movie-saved event to the message broker.  Publishing is
// best-effort: a failure is logged and the user still gets their
// confirmation.
type Publisher func(ctx context.Context, ev queue.MovieSavedEvent) error

// Bot owns everything a single update needs: the Telegram client, the movie
// store, the per-user session store and the access gate.  All dependencies
// are passed in so tests can run the full flows against fakes.
type Bot struct {
	api      telegramAPI
	store    MovieStore
	sessions session.Store
	gate     *membership.Gate
	publish  Publisher // nil disables event publishing

	// Parsed forms of the gating channel reference, used to match
	// incoming join requests.  Exactly one of the two is set.
	channelID   int64
	channelUser string

	log *zap.SugaredLogger
}

// New constructs a Bot.  channel is the gating channel reference from
// configuration, either a numeric id or an @username.
func New(api telegramAPI, store MovieStore, sessions session.Store, gate *membership.Gate, channel string, publish Publisher, log *zap.SugaredLogger) *Bot {
	b := &Bot{
		api:      api,
		store:    store,
		sessions: sessions,
		gate:     gate,
		publish:  publish,
		log:      log,
	}
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		b.channelID = id
	} else {
		b.channelUser = strings.TrimPrefix(channel, "@")
	}
	return b
}

// HandleUpdate routes one inbound update.  Updates are independent; the
// poll loop dispatches each in its own goroutine, so a recover here keeps a
// malformed update from taking the whole loop down.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Errorw("panic while handling update", "update_id", upd.UpdateID, "panic", r)
		}
	}()

	switch {
	case upd.ChatJoinRequest != nil:
		b.handleJoinRequest(ctx, upd.ChatJoinRequest)
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

// handleMessage routes a plain message: commands first, then an in-progress
// wizard session, then the free-text code lookup.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			if b.allow(ctx, chatID, userID) {
				b.sendGreeting(chatID, msg.From.FirstName)
			}
		case "add":
			if b.allow(ctx, chatID, userID) {
				b.startWizard(ctx, chatID, userID)
			}
		case "chatid":
			if b.allow(ctx, chatID, userID) {
				b.reply(chatID, "Forward any post from the channel here and I will reply with its numeric id.")
			}
		}
		return
	}

	// Diagnostic: resolving a channel id from a forwarded post.
	if msg.ForwardFromChat != nil && msg.ForwardFromChat.IsChannel() {
		if b.allow(ctx, chatID, userID) {
			b.reply(chatID, "Channel ID: <code>"+strconv.FormatInt(msg.ForwardFromChat.ID, 10)+"</code>")
		}
		return
	}

	sess, err := b.sessions.Get(ctx, userID)
	if err != nil {
		b.log.Errorw("session read failed", "user_id", userID, "err", err)
		sess = session.Session{}
	}
	if sess.State != session.StateNone {
		b.handleWizardInput(ctx, msg, sess)
		return
	}

	b.dispatchCode(ctx, msg)
}

// handleCallback routes inline keyboard presses.  The callback is always
// answered so the client spinner stops, regardless of the gate verdict.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	switch cq.Data {
	case callbackAllMovies:
		if b.allow(ctx, chatID, userID) {
			b.sendMovieList(ctx, chatID)
		}
	case callbackAddMovie:
		if b.allow(ctx, chatID, userID) {
			b.startWizard(ctx, chatID, userID)
		}
	case callbackCheckSub:
		// Manual re-check after joining the channel.
		if b.allow(ctx, chatID, userID) {
			b.sendGreeting(chatID, cq.From.FirstName)
		}
	}
	b.answerCallback(cq.ID)
}

// allow runs the access gate and, on denial, renders the join prompt.  The
// caller proceeds only on true; a denied check changes no state.
func (b *Bot) allow(ctx context.Context, chatID, userID int64) bool {
	v := b.gate.Check(ctx, userID)
	if !v.Allowed {
		b.sendJoinPrompt(chatID, v.Invite)
	}
	return v.Allowed
}

// gatedChannel reports whether the given chat is the configured gating
// channel.  Join requests for any other chat are ignored.
func (b *Bot) gatedChannel(chatID int64, username string) bool {
	if b.channelID != 0 {
		return chatID == b.channelID
	}
	return b.channelUser != "" && strings.EqualFold(username, b.channelUser)
}
