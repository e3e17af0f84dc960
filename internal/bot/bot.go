// Package bot runs the Telegram front end. It is a thin shell over the
// analysis engine: every command reads state, runs the deterministic
// engine, and formats the result as text.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/llm"
	"github.com/claude/trainload/internal/resolver"
	"github.com/claude/trainload/internal/storage"
	"github.com/claude/trainload/internal/volume"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeoutSeconds = 30

// Bot is the Telegram front end.
type Bot struct {
	api *tgbotapi.BotAPI
	db  *storage.DB
	kb  *knowledge.Base
	agg *volume.Aggregator
	llm *llm.Client
	log *slog.Logger
}

// New creates a bot from an authorized API client. The llm client may be
// nil; /ask then answers with a hint instead.
func New(api *tgbotapi.BotAPI, db *storage.DB, kb *knowledge.Base, llmClient *llm.Client, log *slog.Logger) *Bot {
	res := resolver.New(kb)
	return &Bot{
		api: api,
		db:  db,
		kb:  kb,
		agg: volume.New(kb, res),
		llm: llmClient,
		log: log,
	}
}

// Run long-polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("telegram bot stopped")
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

// userID maps a Telegram chat to a database user.
func (b *Bot) userID(ctx context.Context, msg *tgbotapi.Message) (int, error) {
	login := fmt.Sprintf("tg:%d", msg.Chat.ID)
	display := msg.From.FirstName
	if msg.From.UserName != "" {
		display = "@" + msg.From.UserName
	}
	return b.db.GetOrCreateUser(ctx, login, display)
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := b.api.Send(out); err != nil {
		b.log.Error("telegram send", "error", err)
	}
}
