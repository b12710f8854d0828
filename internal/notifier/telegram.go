package notifier

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wheelscreener/screener/internal/models"
)

// Telegram sends a run summary to a configured chat once per run.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram creates a notifier from a bot token and target chat.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Logger(),
	}, nil
}

// NotifyRun sends the summary message. Errors are returned for the caller
// to log; notification failure never fails the run.
func (t *Telegram) NotifyRun(snap models.RunSnapshot) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatRunSummary(snap))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	t.logger.Info().Msg("Run summary sent")
	return nil
}

// FormatRunSummary formats the run counters and top passing tickers.
func FormatRunSummary(snap models.RunSnapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("<b>Screener run</b> | %s\n\n", snap.Timestamp.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Universe: %d tickers\n", snap.TotalTickersAnalyzed))
	b.WriteString(fmt.Sprintf("Candidates after pre-filter: %d\n", snap.CandidatesAfterPrefilter))
	b.WriteString(fmt.Sprintf("Passed all criteria: %d\n", snap.PassedAllCriteria))
	b.WriteString(fmt.Sprintf("Near misses: %d\n", snap.NearMisses))

	var passes []models.ResultRecord
	for _, r := range snap.Results {
		if r.Status == models.StatusPass {
			passes = append(passes, r)
		}
	}
	if len(passes) > 0 {
		b.WriteString("\n<b>Top picks:</b>\n")
		for i, r := range passes {
			if i == 10 {
				break
			}
			b.WriteString(fmt.Sprintf("  %s  %.2f (%+.2f%% vs EMA50, RSI %.2f)\n",
				r.Symbol, r.Price, r.DiffPct, r.RSI))
		}
	}

	return b.String()
}
