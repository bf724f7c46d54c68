package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleJoinRequest auto-approves join requests for the gating channel.
// This path deliberately bypasses the access gate: the requester is by
// definition not a member yet.  Requests for any other chat are ignored,
// approval failures are logged once and never retried, and the welcome
// message is best-effort (users who have not started the bot cannot be
// messaged).
func (b *Bot) handleJoinRequest(_ context.Context, req *tgbotapi.ChatJoinRequest) {
	if !b.gatedChannel(req.Chat.ID, req.Chat.UserName) {
		b.log.Debugw("ignoring join request for unmanaged chat",
			"chat_id", req.Chat.ID, "user_id", req.From.ID)
		return
	}

	approve := tgbotapi.ApproveChatJoinRequestConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: req.Chat.ID},
		UserID:     req.From.ID,
	}
	if _, err := b.api.Request(approve); err != nil {
		b.log.Errorw("join request approval failed",
			"chat_id", req.Chat.ID, "user_id", req.From.ID, "err", err)
		return
	}
	b.log.Infow("join request approved", "chat_id", req.Chat.ID, "user_id", req.From.ID)

	msg := tgbotapi.NewMessage(req.From.ID,
		"✅ Your request to join the channel was approved. Send /start to begin.")
	if _, err := b.api.Send(msg); err != nil {
		// Expected when the user never opened a chat with the bot.
		b.log.Debugw("welcome message not delivered", "user_id", req.From.ID, "err", err)
	}
}
