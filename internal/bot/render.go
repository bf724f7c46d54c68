package bot

import (
	"context"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/the-umedov/moviebot/internal/model"
)

// Callback data values for the inline keyboards.
const (
	callbackAllMovies = "all_movies"
	callbackAddMovie  = "add_movie"
	callbackCheckSub  = "check_sub"
)

// listChunkLines caps how many "code — title" lines go into one message so
// a large catalogue never exceeds Telegram's message size limit.
const listChunkLines = 60

// mainKeyboard is the two-button menu shown after /start and after a
// successful submission.
func mainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 All movies", callbackAllMovies),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add movie", callbackAddMovie),
		),
	)
}

// joinKeyboard offers the channel invite link and a manual re-check button
// to users the gate has denied.
func joinKeyboard(invite string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📢 Join the channel", invite),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ I joined, check again", callbackCheckSub),
		),
	)
}

// reply sends an HTML-formatted text message to the chat.  Send failures are
// logged and swallowed; no user-facing path treats them as fatal.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warnw("send message failed", "chat_id", chatID, "err", err)
	}
}

// replyWithKeyboard is reply with an inline keyboard attached.
func (b *Bot) replyWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warnw("send message failed", "chat_id", chatID, "err", err)
	}
}

// answerCallback acknowledges a callback query so the client stops showing
// its progress indicator.
func (b *Bot) answerCallback(id string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		b.log.Debugw("answer callback failed", "callback_id", id, "err", err)
	}
}

// sendGreeting welcomes the user and shows the main menu.
func (b *Bot) sendGreeting(chatID int64, firstName string) {
	name := firstName
	if name == "" {
		name = "there"
	}
	b.replyWithKeyboard(chatID,
		"Hi, "+html.EscapeString(name)+"! Send me a movie code and I will send the movie back.",
		mainKeyboard())
}

// sendJoinPrompt tells a denied user how to gain access.
func (b *Bot) sendJoinPrompt(chatID int64, invite string) {
	b.replyWithKeyboard(chatID,
		"To use this bot you need to be a member of our channel. Join and press the button below.",
		joinKeyboard(invite))
}

// sendMovie renders a stored movie into the chat.  Links become a formatted
// text message.  Uploaded videos are re-sent by file_id; when Telegram
// rejects the reference (stale or copied from another bot) the raw file_id
// is exposed as plain text so the operator can diagnose it.
func (b *Bot) sendMovie(chatID int64, m *model.Movie) {
	title := html.EscapeString(m.Title)
	switch m.Kind {
	case model.KindLink:
		b.reply(chatID, "🎬 <b>"+title+"</b>\n🔗 "+html.EscapeString(m.Payload))
	case model.KindVideo:
		b.reply(chatID, "🎬 <b>"+title+"</b>\n✅ Found it, sending...")
		video := tgbotapi.NewVideo(chatID, tgbotapi.FileID(m.Payload))
		video.Caption = m.Title
		if _, err := b.api.Send(video); err != nil {
			b.log.Warnw("video delivery failed, falling back to file id",
				"chat_id", chatID, "code", m.Code, "err", err)
			b.reply(chatID, "📎 File ID:\n<code>"+html.EscapeString(m.Payload)+"</code>")
		}
	default:
		// Unknown kind in storage; expose the payload rather than drop it.
		b.log.Warnw("movie has unknown kind", "code", m.Code, "kind", string(m.Kind))
		b.reply(chatID, "🎬 <b>"+title+"</b>\n"+html.EscapeString(m.Payload))
	}
}

// sendMovieList renders the whole catalogue as "code — title" lines,
// chunked so no single message exceeds the platform limit.
func (b *Bot) sendMovieList(ctx context.Context, chatID int64) {
	movies, err := b.store.ListAll(ctx)
	if err != nil {
		b.log.Errorw("movie list failed", "err", err)
		b.reply(chatID, "Could not load the movie list, try again later.")
		return
	}
	if len(movies) == 0 {
		b.reply(chatID, "No movies have been added yet.")
		return
	}

	var lines []string
	flush := func() {
		if len(lines) == 0 {
			return
		}
		b.reply(chatID, "📃 <b>Movie list:</b>\n"+strings.Join(lines, "\n"))
		lines = lines[:0]
	}
	for _, m := range movies {
		lines = append(lines, html.EscapeString(m.Code)+" — "+html.EscapeString(m.Title))
		if len(lines) >= listChunkLines {
			flush()
		}
	}
	flush()
}
