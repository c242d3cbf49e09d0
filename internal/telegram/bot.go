package telegram

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/deepresearch-bot/internal/cache/memory"
	"github.com/kitbuilder587/deepresearch-bot/internal/metrics"
	"github.com/kitbuilder587/deepresearch-bot/internal/ratelimit"
	"github.com/kitbuilder587/deepresearch-bot/internal/research"
)

type BotConfig struct {
	Token             string
	Debug             bool
	RequestsPerMinute int
	DefaultDepth      int
	CacheTTL          time.Duration
}

type Bot struct {
	api         *tgbotapi.BotAPI
	pipeline    *research.Pipeline
	cache       *memory.Cache
	logger      *zap.Logger
	metrics     *metrics.Metrics
	handler     *Handler
	rateLimiter *ratelimit.Limiter

	defaultDepth int
	cacheTTL     time.Duration

	wg sync.WaitGroup
}

func New(cfg BotConfig, pipeline *research.Pipeline, reportCache *memory.Cache, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	api.Debug = cfg.Debug

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Hour
	}

	bot := &Bot{
		api:      api,
		pipeline: pipeline,
		cache:    reportCache,
		logger:   logger,
		metrics:  m,
		rateLimiter: ratelimit.New(ratelimit.Config{
			RequestsPerMinute: cfg.RequestsPerMinute,
		}),
		defaultDepth: cfg.DefaultDepth,
		cacheTTL:     cfg.CacheTTL,
	}

	bot.handler = NewHandler(bot)

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
	)

	return bot, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping, waiting for handlers to finish")
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			chatID := int64(0)
			if update.Message != nil && update.Message.Chat != nil {
				chatID = update.Message.Chat.ID
			}
			b.logger.Error("panic in update handler",
				zap.Any("panic", r),
				zap.Int64("chat_id", chatID),
			)
		}
	}()

	b.handler.HandleMessage(ctx, update.Message)
}

func (b *Bot) Send(chatID int64, text string) error {
	if b.api == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// SendStatus отправляет сообщение-статус и возвращает его ID,
// чтобы потом редактировать его по ходу исследования
func (b *Bot) SendStatus(chatID int64, text string) (int, error) {
	if b.api == nil {
		return 0, nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (b *Bot) EditStatus(chatID int64, messageID int, text string) {
	if b.api == nil || messageID == 0 {
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Debug("edit status failed", zap.Error(err))
	}
}

func (b *Bot) SendTyping(chatID int64) {
	if b.api == nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	b.api.Send(action)
}

func (b *Bot) recordRateLimitHit(userID int64) {
	if b.metrics != nil {
		b.metrics.RecordRateLimitHit("tg:" + strconv.FormatInt(userID, 10))
	}
}
