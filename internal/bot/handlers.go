package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/claude/trainload/internal/autoreg"
	"github.com/claude/trainload/internal/mesocycle"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/volume"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `Commands:
/volume — this week's training volume per muscle
/recovery — recovery analysis and recommendation
/program — current program (with this week's phase scaling)
/mesocycle — cycle position and phase
/advance — advance the mesocycle one week
/checkin <sleep> <food> <stress> <soreness> — readiness check-in, 1-5 each
/ask <question> — ask the coach`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.reply(msg, helpText)
	case "volume":
		b.handleVolume(ctx, msg)
	case "recovery":
		b.handleRecovery(ctx, msg)
	case "program":
		b.handleProgram(ctx, msg)
	case "mesocycle":
		b.handleMesocycle(ctx, msg)
	case "advance":
		b.handleAdvance(ctx, msg)
	case "checkin":
		b.handleCheckin(msg)
	case "ask":
		b.handleAsk(ctx, msg)
	default:
		b.reply(msg, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleVolume(ctx context.Context, msg *tgbotapi.Message) {
	uid, err := b.userID(ctx, msg)
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	profile, err := b.db.GetProfile(ctx, uid)
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	logs, err := b.db.RecentWorkoutLogs(ctx, uid, 2, time.Now())
	if err != nil {
		b.replyErr(msg, err)
		return
	}

	report := b.agg.WeeklyVolume(logs, profile.Experience, time.Now())
	b.reply(msg, formatVolumeReport(report))
}

func (b *Bot) handleRecovery(ctx context.Context, msg *tgbotapi.Message) {
	uid, err := b.userID(ctx, msg)
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	logs, err := b.db.RecentWorkoutLogs(ctx, uid, 2, time.Now())
	if err != nil {
		b.replyErr(msg, err)
		return
	}

	analysis := autoreg.Analyze(logs, autoreg.DefaultWindow)
	rec := autoreg.Recommend(analysis)
	b.reply(msg, formatRecovery(analysis, rec))
}

func (b *Bot) handleProgram(ctx context.Context, msg *tgbotapi.Message) {
	uid, err := b.userID(ctx, msg)
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	p, err := b.db.CurrentProgram(ctx, uid)
	if err != nil {
		b.reply(msg, "No program stored yet.")
		return
	}
	state, err := b.db.GetMesocycle(ctx, uid, time.Now())
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	b.reply(msg, formatProgram(mesocycle.DisplayProgram(p, state), state))
}

func (b *Bot) handleMesocycle(ctx context.Context, msg *tgbotapi.Message) {
	uid, err := b.userID(ctx, msg)
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	state, err := b.db.GetMesocycle(ctx, uid, time.Now())
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	b.reply(msg, formatMesocycle(state))
}

func (b *Bot) handleAdvance(ctx context.Context, msg *tgbotapi.Message) {
	uid, err := b.userID(ctx, msg)
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	state, err := b.db.GetMesocycle(ctx, uid, time.Now())
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	next := mesocycle.AdvanceWeek(state)
	if err := b.db.SaveMesocycle(ctx, uid, next); err != nil {
		b.replyErr(msg, err)
		return
	}
	b.reply(msg, "Advanced.\n"+formatMesocycle(next))
}

// handleCheckin parses four 1-5 ratings and reports the composite
// readiness score. The check-in is advisory; readiness that should
// influence autoregulation belongs on the workout log itself.
func (b *Bot) handleCheckin(msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) != 4 {
		b.reply(msg, "Usage: /checkin <sleep> <food> <stress> <soreness>, each 1-5.")
		return
	}

	vals := make([]int, 4)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			b.reply(msg, "Ratings must be numbers 1-5.")
			return
		}
		vals[i] = models.ClampScale(v)
	}

	r := models.Readiness{Sleep: vals[0], Food: vals[1], Stress: vals[2], Soreness: vals[3]}
	score := autoreg.ReadinessScore(r)

	var verdict string
	switch {
	case score < 2.5:
		verdict = "Rough day. Consider weight-only work or extra rest."
	case score >= 4.0:
		verdict = "Feeling fresh. A good day to push."
	default:
		verdict = "Normal readiness. Train as planned."
	}
	b.reply(msg, fmt.Sprintf("Readiness score: %.1f/5\n%s", score, verdict))
}

func (b *Bot) handleAsk(ctx context.Context, msg *tgbotapi.Message) {
	if b.llm == nil {
		b.reply(msg, "The coach is not configured on this server.")
		return
	}
	question := strings.TrimSpace(msg.CommandArguments())
	if question == "" {
		b.reply(msg, "Usage: /ask <question>")
		return
	}

	uid, err := b.userID(ctx, msg)
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	profile, err := b.db.GetProfile(ctx, uid)
	if err != nil {
		b.replyErr(msg, err)
		return
	}
	logs, err := b.db.RecentWorkoutLogs(ctx, uid, 2, time.Now())
	if err != nil {
		b.replyErr(msg, err)
		return
	}

	report := b.agg.WeeklyVolume(logs, profile.Experience, time.Now())
	answer, err := b.llm.Chat(ctx, question, volume.PromptBlock(report))
	if err != nil {
		b.log.Error("llm chat", "error", err)
		b.reply(msg, "The coach did not answer, try again later.")
		return
	}
	b.reply(msg, answer)
}

func (b *Bot) replyErr(msg *tgbotapi.Message, err error) {
	b.log.Error("bot command", "command", msg.Command(), "error", err)
	b.reply(msg, "Something went wrong, try again later.")
}
