package telegram

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
	"github.com/clubbravado/fightfeed/internal/shared/config"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/lo"
)

// maxItems caps how many entries a single chat reply lists.
const maxItems = 5

// Lister serves listing pages.
type Lister interface {
	List(ctx context.Context, q domain.Query) domain.Page
}

// Categories lists the available tabs.
type Categories interface {
	Categories() []string
}

// Handler handles Telegram bot interactions
type Handler struct {
	cfg        *config.Config
	lister     Lister
	categories Categories
	logger     *slog.Logger
}

// New creates a new Telegram handler
func New(cfg *config.Config, lister Lister, categories Categories, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:        cfg,
		lister:     lister,
		categories: categories,
		logger:     logger,
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/tabs", bot.MatchTypeExact, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/news", bot.MatchTypePrefix, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/videos", bot.MatchTypePrefix, h.handleCommand)
}

// HandleUpdate is the fallback for messages no command matched.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !strings.HasPrefix(update.Message.Text, "/") {
		return
	}
	h.handleCommand(ctx, b, update)
}

func (h *Handler) handleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	reply := h.Respond(ctx, update.Message.From.ID, update.Message.Text)
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      reply,
		ParseMode: models.ParseModeHTML,
	}); err != nil {
		h.logger.Error("Failed to send reply", "chat_id", update.Message.Chat.ID, "error", err)
	}
}

// Respond builds the HTML reply for a command sent by userID.
func (h *Handler) Respond(ctx context.Context, userID int64, text string) string {
	if !h.checkAuthorization(userID) {
		return "❌ You are not authorized to use this bot."
	}

	command, args := parseCommand(text)
	switch command {
	case "/start":
		return "👊 Welcome to Fight Feed!\n\n" + helpText
	case "/news":
		return h.listing(ctx, args, domain.KindNews, "📰")
	case "/videos":
		return h.listing(ctx, args, domain.KindVideos, "🎬")
	case "/tabs":
		return "Available tabs:\n" + strings.Join(lo.Map(h.categories.Categories(), func(c string, _ int) string {
			return "• <code>" + html.EscapeString(c) + "</code>"
		}), "\n")
	default:
		return helpText
	}
}

const helpText = `Available commands:
/news [tab] - Latest combat sports news
/videos [tab] - Official full fights and highlight reels
/tabs - List available tabs
/help - Show this help message`

func (h *Handler) listing(ctx context.Context, args []string, kind domain.Kind, icon string) string {
	tab := domain.Query{Kind: kind}
	if len(args) > 0 {
		tab.Category = args[0]
	}

	page := h.lister.List(ctx, tab)
	h.logger.Debug("Telegram listing served", "tab", tab.Category, "kind", kind, "count", page.Count)
	return FormatPage(icon, page, maxItems)
}

// FormatPage renders up to limit items of a page as a Telegram HTML message.
func FormatPage(icon string, page domain.Page, limit int) string {
	if len(page.Results) == 0 {
		return icon + " Nothing new right now. Try another tab with /tabs."
	}

	var sb strings.Builder
	for i, item := range lo.Slice(page.Results, 0, limit) {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%s <a href=\"%s\">%s</a>", icon, html.EscapeString(item.Link), html.EscapeString(item.Title))
		meta := item.SourceName
		if item.PublishedAt != nil {
			meta = strings.TrimSpace(meta + " · " + item.PublishedAt.Format("Jan 2 15:04"))
		}
		if meta != "" {
			sb.WriteString("\n<i>" + html.EscapeString(meta) + "</i>")
		}
	}
	return sb.String()
}

func (h *Handler) checkAuthorization(userID int64) bool {
	if len(h.cfg.AllowedUsers) == 0 {
		return true
	}
	return lo.Contains(h.cfg.AllowedUsers, userID)
}

// parseCommand splits "/news@FightFeedBot boxing" into "/news" and ["boxing"].
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	command, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	return command, fields[1:]
}
