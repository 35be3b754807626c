// Package transport connects the dialogue engine to the Telegram Bot API.
// It owns the callback wire encoding, the update offset, and the per-user
// dispatch queues that keep each user's events strictly ordered.
package transport

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/org-directory-bot/internal/config"
	"github.com/spec-kit/org-directory-bot/internal/dialog"
)

const (
	userQueueSize   = 16
	dispatchTimeout = 30 * time.Second
	pollRetryDelay  = 3 * time.Second
)

// Bot pumps Telegram updates into the dialogue engine and renders the
// engine's responses back to chats.
type Bot struct {
	api         *tgbotapi.BotAPI
	engine      *dialog.Engine
	offsets     OffsetStore
	logger      *zap.Logger
	pollTimeout int

	mu     sync.Mutex
	queues map[int64]chan queuedUpdate
	closed bool
	wg     sync.WaitGroup
}

type queuedUpdate struct {
	ctx    context.Context
	update tgbotapi.Update
}

// NewBot authenticates against the Bot API and prepares the dispatch queues.
func NewBot(cfg config.TelegramConfig, engine *dialog.Engine, offsets OffsetStore, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	logger.Info("authenticated with telegram", zap.String("username", api.Self.UserName))

	return &Bot{
		api:         api,
		engine:      engine,
		offsets:     offsets,
		logger:      logger,
		pollTimeout: cfg.PollTimeoutSec,
		queues:      make(map[int64]chan queuedUpdate),
	}, nil
}

// Poll runs the long-poll loop until the context is cancelled. The confirmed
// offset is persisted after every batch so a restart resumes where it left
// off.
func (b *Bot) Poll(ctx context.Context) error {
	offset, err := b.offsets.Load(ctx)
	if err != nil {
		b.logger.Warn("unable to load update offset, starting from zero", zap.Error(err))
		offset = 0
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		req := tgbotapi.NewUpdate(offset)
		req.Timeout = b.pollTimeout

		updates, err := b.api.GetUpdates(req)
		if err != nil {
			b.logger.Warn("get updates failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			b.HandleUpdate(ctx, update)
		}

		if len(updates) > 0 {
			if err := b.offsets.Save(ctx, offset); err != nil {
				b.logger.Warn("unable to persist update offset", zap.Error(err))
			}
		}
	}
}

// HandleUpdate enqueues one update for its user. Updates from different
// users run concurrently; updates from the same user run in arrival order.
// Also the entry point for webhook delivery.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	userID := updateUserID(update)
	if userID == 0 {
		b.logger.Debug("update without user, dropped", zap.Int("update_id", update.UpdateID))
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	queue, ok := b.queues[userID]
	if !ok {
		queue = make(chan queuedUpdate, userQueueSize)
		b.queues[userID] = queue
		b.wg.Add(1)
		go b.userLoop(queue)
	}
	b.mu.Unlock()

	select {
	case queue <- queuedUpdate{ctx: ctx, update: update}:
	default:
		b.logger.Warn("user queue full, update dropped",
			zap.Int64("user_id", userID),
			zap.Int("update_id", update.UpdateID))
	}
}

// Close drains the per-user queues and waits for in-flight dispatches.
func (b *Bot) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, queue := range b.queues {
		close(queue)
	}
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *Bot) userLoop(queue chan queuedUpdate) {
	defer b.wg.Done()
	for q := range queue {
		b.process(q.ctx, q.update)
	}
}

func (b *Bot) process(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	switch {
	case update.CallbackQuery != nil:
		b.processCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.processMessage(ctx, update.Message)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	var ev dialog.Event
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		ev = dialog.ResetCommand{}
	case msg.IsCommand():
		b.logger.Debug("unknown command, dropped",
			zap.Int64("user_id", msg.From.ID),
			zap.String("command", msg.Command()))
		return
	default:
		ev = dialog.TextInput{Text: msg.Text}
	}

	resp, _, err := b.engine.Dispatch(ctx, msg.From.ID, ev)
	if err != nil {
		b.logger.Error("dispatch failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		return
	}
	if resp.Empty() {
		return
	}
	b.sendMessage(msg.Chat.ID, resp)
}

func (b *Bot) processCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	ev, err := DecodeCallback(cb.Data)
	if err != nil {
		b.logger.Warn("undecodable callback, dropped",
			zap.Int64("user_id", cb.From.ID),
			zap.Error(err))
		b.answerCallback(cb.ID, "", false)
		return
	}

	resp, _, err := b.engine.Dispatch(ctx, cb.From.ID, ev)
	if err != nil {
		b.logger.Error("dispatch failed", zap.Int64("user_id", cb.From.ID), zap.Error(err))
		b.answerCallback(cb.ID, "", false)
		return
	}

	b.answerCallback(cb.ID, resp.Notice, resp.Alert)

	if resp.Text == "" || cb.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID, resp.Text, b.inlineKeyboard(resp.Keyboard))
	if _, err := b.api.Send(edit); err != nil {
		// Editing fails when the message is too old or unchanged; fall back
		// to a fresh message so the user still sees the result.
		b.logger.Debug("edit failed, sending new message", zap.Error(err))
		b.sendMessage(cb.Message.Chat.ID, resp)
	}
}

func (b *Bot) sendMessage(chatID int64, resp dialog.Response) {
	text := resp.Text
	if text == "" {
		text = resp.Notice
	}
	if text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if len(resp.Keyboard) > 0 {
		msg.ReplyMarkup = b.inlineKeyboard(resp.Keyboard)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) answerCallback(callbackID, text string, alert bool) {
	var cfg tgbotapi.CallbackConfig
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(callbackID, text)
	} else {
		cfg = tgbotapi.NewCallback(callbackID, text)
	}
	if _, err := b.api.Request(cfg); err != nil {
		b.logger.Debug("answer callback failed", zap.Error(err))
	}
}

func (b *Bot) inlineKeyboard(kb dialog.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			data, err := EncodeCallback(btn.Event)
			if err != nil {
				b.logger.Warn("button skipped", zap.String("label", btn.Label), zap.Error(err))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, data))
		}
		if len(buttons) > 0 {
			rows = append(rows, buttons)
		}
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func updateUserID(update tgbotapi.Update) int64 {
	switch {
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	default:
		return 0
	}
}
