package bot

import (
	"context"
	"html"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/the-umedov/moviebot/internal/model"
	"github.com/the-umedov/moviebot/internal/queue"
	"github.com/the-umedov/moviebot/internal/session"
)

// codePattern is the only accepted shape for a movie code.
var codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// startWizard opens a fresh submission session for the user, replacing any
// previous draft, and prompts for the code.
func (b *Bot) startWizard(ctx context.Context, chatID, userID int64) {
	if err := b.sessions.Put(ctx, userID, session.Session{State: session.StateAwaitingCode}); err != nil {
		b.log.Errorw("session write failed", "user_id", userID, "err", err)
		b.reply(chatID, "Something went wrong, try again.")
		return
	}
	b.reply(chatID, "Send the movie code (for example: A12 or movie_7):")
}

// handleWizardInput advances the submission state machine by one step.  The
// access gate runs before every transition; a denied verdict short-circuits
// with no state change.  Invalid input re-prompts and stays in the current
// state.
func (b *Bot) handleWizardInput(ctx context.Context, msg *tgbotapi.Message, sess session.Session) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if !b.allow(ctx, chatID, userID) {
		return
	}

	switch sess.State {
	case session.StateAwaitingCode:
		code := strings.TrimSpace(msg.Text)
		if !codePattern.MatchString(code) {
			b.reply(chatID, "That code will not work. Use letters, digits, _ or -, 1 to 32 characters.")
			return
		}
		sess.DraftCode = code
		sess.State = session.StateAwaitingTitle
		if err := b.sessions.Put(ctx, userID, sess); err != nil {
			b.log.Errorw("session write failed", "user_id", userID, "err", err)
			b.reply(chatID, "Something went wrong, send the code again.")
			return
		}
		b.reply(chatID, "Send the movie title (for example: Fast & Furious 7):")

	case session.StateAwaitingTitle:
		title := strings.TrimSpace(msg.Text)
		if title == "" {
			b.reply(chatID, "The title cannot be empty.")
			return
		}
		sess.DraftTitle = title
		sess.State = session.StateAwaitingContent
		if err := b.sessions.Put(ctx, userID, sess); err != nil {
			b.log.Errorw("session write failed", "user_id", userID, "err", err)
			b.reply(chatID, "Something went wrong, send the title again.")
			return
		}
		b.reply(chatID, "Now send a <b>link</b> to the movie or upload it as a <b>video</b>.\n"+
			"✅ For a link: send https://...\n"+
			"✅ For a video: upload it right here.")

	case session.StateAwaitingContent:
		text := strings.TrimSpace(msg.Text)
		switch {
		case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
			b.commitMovie(ctx, chatID, userID, sess, model.KindLink, text)
		case msg.Video != nil:
			b.commitMovie(ctx, chatID, userID, sess, model.KindVideo, msg.Video.FileID)
		default:
			b.reply(chatID, "Send a link (https://...) or upload a video.")
		}

	default:
		// Unknown state in storage, e.g. from a newer build.  Reset.
		b.log.Warnw("resetting session with unknown state", "user_id", userID, "state", string(sess.State))
		if err := b.sessions.Clear(ctx, userID); err != nil {
			b.log.Errorw("session clear failed", "user_id", userID, "err", err)
		}
	}
}

// commitMovie is the wizard's terminal step: it upserts the collected draft,
// clears the session and confirms to the user.  An upsert failure keeps the
// session in AwaitingContent so the user can simply resend the content.
func (b *Bot) commitMovie(ctx context.Context, chatID, userID int64, sess session.Session, kind model.Kind, payload string) {
	m := &model.Movie{
		Code:    sess.DraftCode,
		Title:   sess.DraftTitle,
		Kind:    kind,
		Payload: payload,
	}
	if err := b.store.Upsert(ctx, m); err != nil {
		b.log.Errorw("movie upsert failed", "code", m.Code, "err", err)
		b.reply(chatID, "Saving failed, send the link or video again.")
		return
	}
	if err := b.sessions.Clear(ctx, userID); err != nil {
		b.log.Errorw("session clear failed", "user_id", userID, "err", err)
	}

	if b.publish != nil {
		ev := queue.MovieSavedEvent{
			Code:    m.Code,
			Title:   m.Title,
			Kind:    string(kind),
			UserID:  userID,
			SavedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := b.publish(ctx, ev); err != nil {
			b.log.Warnw("movie saved event publish failed", "code", m.Code, "err", err)
		}
	}

	kindLabel := "link"
	if kind == model.KindVideo {
		kindLabel = "video"
	}
	b.replyWithKeyboard(chatID,
		"✅ Saved!\nCode: "+html.EscapeString(m.Code)+
			"\nTitle: "+html.EscapeString(m.Title)+
			"\nType: "+kindLabel,
		mainKeyboard())
}
