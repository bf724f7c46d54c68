package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/the-umedov/moviebot/internal/repository"
)

// dispatchCode treats free text outside the wizard as a candidate movie
// code.  An unknown code is ignored without any reply: answering "not
// found" would let anyone probe which codes exist.
func (b *Bot) dispatchCode(ctx context.Context, msg *tgbotapi.Message) {
	if !b.allow(ctx, msg.Chat.ID, msg.From.ID) {
		return
	}
	code := strings.TrimSpace(msg.Text)
	if code == "" {
		return
	}
	m, err := b.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return // silent on miss by design
		}
		b.log.Errorw("movie lookup failed", "code", code, "err", err)
		return
	}
	b.sendMovie(msg.Chat.ID, m)
}
