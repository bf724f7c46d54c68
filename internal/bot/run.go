package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Poll runs one long-polling pass over the Telegram update stream,
// dispatching every update in its own goroutine.  Per-user ordering is
// best-effort only: two quick messages from the same user may race on
// session state, which the submission flow tolerates.
//
// Poll returns when the update channel closes; the caller owns the
// sleep-and-retry supervision loop.
func Poll(api *tgbotapi.BotAPI, b *Bot) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message", "callback_query", "chat_join_request"}

	updates := api.GetUpdatesChan(u)
	for upd := range updates {
		go b.HandleUpdate(context.Background(), upd)
	}
	return errors.New("update channel closed")
}
