// Package membership decides whether a Telegram user is allowed to use the
// bot.  Access is gated on membership in a single configured channel; the
// oracle wraps the getChatMember call and the gate turns its answer into a
// binary verdict that every user-facing handler consults first.
package membership

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Status classifies a user's relationship to the gating channel.
type Status int

const (
	NotMember Status = iota
	Member
)

// Oracle answers membership queries for a single channel.  The concrete
// implementation talks to Telegram; tests inject fakes.
type Oracle interface {
	Status(ctx context.Context, userID int64) Status
}

// Classify maps a raw Telegram member status onto the binary membership
// model.  creator, administrator and member are in; a restricted user still
// counts as present when Telegram reports is_member; left, kicked and
// anything unrecognised are out.
func Classify(status string, isMember bool) Status {
	switch status {
	case "creator", "administrator", "member":
		return Member
	case "restricted":
		if isMember {
			return Member
		}
		return NotMember
	default: // "left", "kicked", "" or unknown
		return NotMember
	}
}

// memberClient is the slice of the Telegram API the oracle needs.
// *tgbotapi.BotAPI satisfies it.
type memberClient interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// ChannelOracle queries Telegram for a user's member status in the
// configured channel.  Any transport or permission failure is treated as
// NotMember: the gate fails closed rather than letting an outage open the
// bot to everyone.
type ChannelOracle struct {
	api       memberClient
	channelID int64  // numeric channel id, 0 when a username is used
	username  string // @username form, empty when a numeric id is used
	log       *zap.SugaredLogger
}

// NewChannelOracle builds an oracle for the given channel reference, which
// is either a numeric id ("-1001234567890") or a public "@username".
func NewChannelOracle(api memberClient, channel string, log *zap.SugaredLogger) *ChannelOracle {
	o := &ChannelOracle{api: api, log: log}
	if strings.HasPrefix(channel, "@") {
		o.username = channel
	} else if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		o.channelID = id
	} else {
		// Bare username without the @ prefix.
		o.username = "@" + channel
	}
	return o
}

// Status asks Telegram for the user's member record and classifies it.
func (o *ChannelOracle) Status(_ context.Context, userID int64) Status {
	member, err := o.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             o.channelID,
			SuperGroupUsername: o.username,
			UserID:             userID,
		},
	})
	if err != nil {
		o.log.Warnw("membership query failed, treating as non-member", "user_id", userID, "err", err)
		return NotMember
	}
	return Classify(member.Status, member.IsMember)
}
