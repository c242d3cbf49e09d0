package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/deepresearch-bot/internal/cache/memory"
	"github.com/kitbuilder587/deepresearch-bot/internal/research"
)

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			h.handleStart(msg)
			return
		case "help":
			h.handleHelp(msg)
			return
		case "research", "deep":
			h.handleResearch(ctx, msg)
			return
		default:
			h.bot.Send(msg.Chat.ID, "Неизвестная команда. Используйте /help для справки.")
			return
		}
	}

	h.handleResearch(ctx, msg)
}

func (h *Handler) handleStart(msg *tgbotapi.Message) {
	h.bot.Send(msg.Chat.ID,
		"Привет! Я провожу многораундовые исследования: ищу в вебе, анализирую найденное и сам придумываю следующий запрос.\n\nПросто отправьте вопрос или посмотрите /help.")
}

func (h *Handler) handleHelp(msg *tgbotapi.Message) {
	helpText := `<b>Доступные команды:</b>

/research вопрос - Исследование со стандартной глубиной
/research N вопрос - Исследование на N раундов (2-10)
/deep вопрос - Максимальная глубина (10 раундов)
/help - Показать эту справку

<b>Как это работает:</b>
Каждый раунд я ищу в вебе, анализирую результаты и формулирую следующий запрос по пробелам в собранной картине. В конце склеиваю все раунды в один отчет.

<b>Пример:</b>
/research 4 квантовые вычисления в 2025 году`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleResearch(ctx context.Context, msg *tgbotapi.Message) {
	question, depth := ParseResearchCommand(msg.Text, h.bot.defaultDepth)
	if strings.TrimSpace(question) == "" {
		h.bot.Send(msg.Chat.ID, "Сформулируйте вопрос: /research ваш вопрос")
		return
	}

	if !h.bot.rateLimiter.Allow(fmt.Sprintf("tg:%d", msg.From.ID)) {
		h.bot.recordRateLimitHit(msg.From.ID)
		reset := h.bot.rateLimiter.ResetTime(fmt.Sprintf("tg:%d", msg.From.ID))
		h.bot.Send(msg.Chat.ID, fmt.Sprintf(
			"Слишком много запросов. Попробуйте через %d сек.",
			int(time.Until(reset).Seconds())+1,
		))
		return
	}

	cacheKey := memory.Key(question, depth)
	if h.bot.cache != nil {
		if cached, ok := h.bot.cache.Get(cacheKey); ok {
			if h.bot.metrics != nil {
				h.bot.metrics.RecordCacheHit()
			}
			h.bot.Send(msg.Chat.ID, FormatReport(cached))
			return
		}
		if h.bot.metrics != nil {
			h.bot.metrics.RecordCacheMiss()
		}
	}

	h.bot.SendTyping(msg.Chat.ID)
	statusID, err := h.bot.SendStatus(msg.Chat.ID, FormatProgress(research.StageSearching, 1, depth))
	if err != nil {
		h.bot.logger.Warn("failed to send status message", zap.Error(err))
	}

	onProgress := func(ev research.ProgressEvent) {
		h.bot.EditStatus(msg.Chat.ID, statusID, FormatProgress(ev.Stage, ev.Round, depth))
	}

	report := h.bot.pipeline.Run(ctx, question, question, depth, onProgress)
	if report.Failed() {
		h.bot.logger.Error("research failed",
			zap.Int64("user_id", msg.From.ID),
			zap.String("error", report.Error),
		)
		h.bot.Send(msg.Chat.ID, FormatError(report.Error))
		return
	}

	if h.bot.cache != nil {
		h.bot.cache.Set(cacheKey, report, h.bot.cacheTTL)
	}

	h.bot.Send(msg.Chat.ID, FormatReport(report))
}
