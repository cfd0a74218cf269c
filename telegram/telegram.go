// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package telegram

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/danielhkuo/pollbooth/bot"
	"github.com/danielhkuo/pollbooth/models"
)

// Telegram rejects messages longer than this; anything bigger is split.
const maxMessageLen = 4096

// workerQueueLen bounds how many unprocessed messages one user may pile up.
const workerQueueLen = 16

// Bot bridges Telegram long polling to the dialogue engine. Messages are
// funneled into one worker goroutine per user, so a user's messages are
// handled strictly in arrival order while different users run concurrently.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *bot.Engine

	mu      sync.Mutex
	workers map[int64]chan *tgbotapi.Message
	wg      sync.WaitGroup
}

func New(token string, engine *bot.Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:     api,
		engine:  engine,
		workers: make(map[int64]chan *tgbotapi.Message),
	}, nil
}

// Run long-polls for updates until the context is cancelled, then drains
// the per-user workers before returning.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	slog.Info("telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.shutdown()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.shutdown()
				return nil
			}
			msg := update.Message
			if msg == nil || msg.From == nil || msg.From.IsBot {
				continue
			}
			b.dispatch(ctx, msg)
		}
	}
}

func (b *Bot) shutdown() {
	b.mu.Lock()
	for _, ch := range b.workers {
		close(ch)
	}
	b.workers = nil
	b.mu.Unlock()
	b.wg.Wait()
	slog.Info("telegram bot stopped")
}

// dispatch hands the message to the sender's worker, starting one on first
// contact. A full queue drops the message rather than stalling other users.
func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	b.mu.Lock()
	if b.workers == nil {
		b.mu.Unlock()
		return
	}
	ch, ok := b.workers[msg.From.ID]
	if !ok {
		ch = make(chan *tgbotapi.Message, workerQueueLen)
		b.workers[msg.From.ID] = ch
		b.wg.Add(1)
		go b.worker(ctx, ch)
	}
	b.mu.Unlock()

	select {
	case ch <- msg:
	default:
		slog.Warn("user queue full, dropping message", "user_id", msg.From.ID)
	}
}

func (b *Bot) worker(ctx context.Context, jobs <-chan *tgbotapi.Message) {
	defer b.wg.Done()
	for msg := range jobs {
		b.handle(ctx, msg)
	}
}

func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) {
	logger := slog.With(
		"trace_id", uuid.NewString(),
		"user_id", msg.From.ID,
		"chat_id", msg.Chat.ID,
	)
	logger.Info("message received", "username", msg.From.UserName, "text", msg.Text)

	replies := b.engine.HandleMessage(ctx, msg.From.ID, msg.From.UserName, msg.Text)
	for _, r := range replies {
		if err := b.send(msg.Chat.ID, r); err != nil {
			logger.Warn("telegram send failed", "error", err)
		}
	}
	logger.Info("message handled", "replies", len(replies))
}

// send delivers one reply, chunked if oversized. The keyboard rides on the
// final chunk so it is the one left on screen.
func (b *Bot) send(chatID int64, r models.Reply) error {
	parts := chunkText(r.Text, maxMessageLen)
	for i, part := range parts {
		out := tgbotapi.NewMessage(chatID, part)
		if i == len(parts)-1 {
			if kb, ok := keyboardFor(r); ok {
				out.ReplyMarkup = kb
			}
		}
		if _, err := b.api.Send(out); err != nil {
			return err
		}
	}
	return nil
}

// chunkText splits text into rune-safe pieces of at most max runes.
func chunkText(text string, max int) []string {
	runes := []rune(text)
	if len(runes) <= max {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 {
		n := max
		if n > len(runes) {
			n = len(runes)
		}
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}
	return parts
}
