// Package telegram is the interactive front end: a webhook bot that
// plans meals, keeps per-chat settings and talks to the recipe box.
package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/NoMooncake/meal-planner/internal/clipper"
	"github.com/NoMooncake/meal-planner/internal/config"
	"github.com/NoMooncake/meal-planner/internal/ghost"
	"github.com/NoMooncake/meal-planner/internal/grocery"
	"github.com/NoMooncake/meal-planner/internal/history"
	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/metrics"
	"github.com/NoMooncake/meal-planner/internal/pantry"
	"github.com/NoMooncake/meal-planner/internal/planner"
	"github.com/NoMooncake/meal-planner/internal/planner/strategy"
	"github.com/NoMooncake/meal-planner/internal/pricing"
	"github.com/NoMooncake/meal-planner/internal/recipe"
	"github.com/NoMooncake/meal-planner/internal/render"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Defaults applied to chats that never changed their settings.
const (
	defaultDays   = 2
	defaultSeed   = 7
	defaultBudget = 50.0
)

const helpText = `👋 *Meal Planner*

/plan [days] - generate a meal plan
/shop [days] - plan plus a shopping list minus your pantry
/pantry [show|set <name=amount:unit,...>|clear] - manage your pantry
/days <n> - default number of days
/meals <types> - meal types per day, e.g. lunch,dinner
/strategy <random|pantry-first|budget> - how recipes get picked
/budget <amount> - budget for the budget strategy
/seed <n> - seed for the random strategy
/sync - reload the catalog from the recipe box
/publish - post the current shopping list to the blog
/history - recent plans
/status - process health and counters
/help - this message

Send a recipe URL to clip it into the recipe box.`

// Bot wraps the Telegram API, the planner stack and the recipe box.
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.Config
	prices      *pricing.Book
	ghostClient ghost.Client
	clip        *clipper.Clipper
	repo        *history.Repository

	// catalog is swapped wholesale by /sync while handlers read it.
	mu      sync.RWMutex
	catalog recipe.Catalog
}

// NewBot initializes the Telegram Bot and sets the Webhook. ghostClient
// and clip may be nil when the Ghost integration is not configured.
func NewBot(
	cfg *config.Config,
	catalog recipe.Catalog,
	prices *pricing.Book,
	ghostClient ghost.Client,
	clip *clipper.Clipper,
	repo *history.Repository,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:         api,
		cfg:         cfg,
		prices:      prices,
		ghostClient: ghostClient,
		clip:        clip,
		repo:        repo,
		catalog:     catalog,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.cfg.UserAllowed(update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	// URLs go straight to the clipper
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleClip(msg, text)
		return
	}

	command, args, _ := strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")
	args = strings.TrimSpace(args)

	switch command {
	case "/start", "/help":
		b.reply(msg.Chat.ID, helpText)
	case "/plan":
		b.handlePlan(msg, args, false)
	case "/shop":
		b.handlePlan(msg, args, true)
	case "/pantry":
		b.handlePantry(msg, args)
	case "/days":
		b.handleDays(msg, args)
	case "/meals":
		b.handleMeals(msg, args)
	case "/strategy":
		b.handleStrategy(msg, args)
	case "/budget":
		b.handleBudget(msg, args)
	case "/seed":
		b.handleSeed(msg, args)
	case "/sync":
		b.handleSync(msg)
	case "/publish":
		b.handlePublish(msg)
	case "/history":
		b.handleHistory(msg)
	case "/status":
		b.handleStatus(msg)
	default:
		b.reply(msg.Chat.ID, "🤔 Unknown command. Try /help.")
	}
}

// handlePlan serves both /plan and /shop; withPantry subtracts the
// chat's pantry from the shopping list.
func (b *Bot) handlePlan(msg *tgbotapi.Message, args string, withPantry bool) {
	ctx := context.Background()
	settings := b.settingsFor(ctx, msg.Chat.ID)

	if args != "" {
		days, err := strconv.Atoi(args)
		if err != nil {
			b.reply(msg.Chat.ID, "❌ Usage: /plan [days]")
			return
		}
		settings.Days = days
	}

	statusID, ok := b.sendStatus(msg.Chat.ID, "🧑‍🍳 *Cooking up a plan...*")
	if !ok {
		return
	}

	plan, list, err := b.generate(settings, withPantry)
	if err != nil {
		log.Printf("Error generating plan for chat %d: %v", msg.Chat.ID, err)
		b.editStatus(msg.Chat.ID, statusID, formatError("generating plan", err))
		return
	}

	if _, err := b.repo.SaveRun(ctx, msg.Chat.ID, settings.Strategy, settings.Days, settings.MealTypes, plan, list); err != nil {
		log.Printf("Warning: failed to record plan run for chat %d: %v", msg.Chat.ID, err)
	}

	b.editStatus(msg.Chat.ID, statusID, formatPlanMarkdown(plan))
	b.reply(msg.Chat.ID, formatListMarkdown(list))
}

// generate builds the strategy and planner for one run.
func (b *Bot) generate(settings history.ChatSettings, withPantry bool) (meal.Plan, grocery.ShoppingList, error) {
	stock, err := b.pantryFrom(settings)
	if err != nil {
		return meal.Plan{}, grocery.ShoppingList{}, fmt.Errorf("failed to parse pantry: %w", err)
	}

	strat, err := b.buildStrategy(settings, stock)
	if err != nil {
		return meal.Plan{}, grocery.ShoppingList{}, err
	}

	p, err := planner.New(b.currentCatalog(), strat)
	if err != nil {
		return meal.Plan{}, grocery.ShoppingList{}, err
	}

	plan, err := p.Plan(settings.Days, settings.MealTypes)
	if err != nil {
		return meal.Plan{}, grocery.ShoppingList{}, err
	}

	list := grocery.FromPlan(plan)
	if withPantry {
		list = grocery.Subtract(list, stock)
	}

	return plan, list, nil
}

func (b *Bot) buildStrategy(settings history.ChatSettings, stock *pantry.Pantry) (strategy.Strategy, error) {
	switch settings.Strategy {
	case "pantry-first":
		return strategy.NewPantryFirst(stock), nil
	case "budget":
		strat, err := strategy.NewBudgetAware(b.prices, settings.Budget)
		if err != nil {
			return nil, err
		}
		return strat, nil
	case "random", "":
		return strategy.NewRandom(settings.Seed), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", settings.Strategy)
	}
}

func (b *Bot) handlePantry(msg *tgbotapi.Message, args string) {
	ctx := context.Background()
	settings := b.settingsFor(ctx, msg.Chat.ID)

	action, rest, _ := strings.Cut(args, " ")
	switch action {
	case "", "show":
		stock, err := b.pantryFrom(settings)
		if err != nil {
			b.reply(msg.Chat.ID, formatError("reading pantry", err))
			return
		}
		b.reply(msg.Chat.ID, formatPantryMarkdown(stock))
	case "set":
		spec := strings.TrimSpace(rest)
		if _, err := pantry.ParseSpec(spec); err != nil {
			b.reply(msg.Chat.ID, formatError("parsing pantry", err))
			return
		}
		settings.PantrySpec = spec
		b.saveSettings(ctx, settings)
		b.reply(msg.Chat.ID, "✅ Pantry updated.")
	case "clear":
		settings.PantrySpec = ""
		b.saveSettings(ctx, settings)
		b.reply(msg.Chat.ID, "🧹 Pantry cleared.")
	default:
		b.reply(msg.Chat.ID, "❌ Usage: /pantry [show|set <name=amount:unit,...>|clear]")
	}
}

func (b *Bot) handleDays(msg *tgbotapi.Message, args string) {
	days, err := strconv.Atoi(args)
	if err != nil || days < 1 {
		b.reply(msg.Chat.ID, "❌ Usage: /days <n>, n at least 1")
		return
	}

	ctx := context.Background()
	settings := b.settingsFor(ctx, msg.Chat.ID)
	settings.Days = days
	b.saveSettings(ctx, settings)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Planning %d day(s) from now on.", days))
}

func (b *Bot) handleMeals(msg *tgbotapi.Message, args string) {
	types, err := meal.ParseTypes(args)
	if err != nil {
		b.reply(msg.Chat.ID, formatError("parsing meal types", err))
		return
	}

	ctx := context.Background()
	settings := b.settingsFor(ctx, msg.Chat.ID)
	settings.MealTypes = types
	b.saveSettings(ctx, settings)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Meals per day: %s.", formatTypes(types)))
}

func (b *Bot) handleStrategy(msg *tgbotapi.Message, args string) {
	name := strings.ToLower(strings.TrimSpace(args))
	switch name {
	case "random", "pantry-first", "budget":
	default:
		b.reply(msg.Chat.ID, "❌ Usage: /strategy <random|pantry-first|budget>")
		return
	}

	ctx := context.Background()
	settings := b.settingsFor(ctx, msg.Chat.ID)
	settings.Strategy = name
	b.saveSettings(ctx, settings)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Strategy set to %s.", name))
}

func (b *Bot) handleBudget(msg *tgbotapi.Message, args string) {
	budget, err := strconv.ParseFloat(args, 64)
	if err != nil || budget <= 0 {
		b.reply(msg.Chat.ID, "❌ Usage: /budget <amount>, amount above 0")
		return
	}

	ctx := context.Background()
	settings := b.settingsFor(ctx, msg.Chat.ID)
	settings.Budget = budget
	b.saveSettings(ctx, settings)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Budget set to %s.", render.FormatAmount(budget)))
}

func (b *Bot) handleSeed(msg *tgbotapi.Message, args string) {
	seed, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ Usage: /seed <n>")
		return
	}

	ctx := context.Background()
	settings := b.settingsFor(ctx, msg.Chat.ID)
	settings.Seed = seed
	b.saveSettings(ctx, settings)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Seed set to %d.", seed))
}

func (b *Bot) handleSync(msg *tgbotapi.Message) {
	if b.ghostClient == nil {
		b.reply(msg.Chat.ID, "⚠️ Ghost is not configured; the recipe box stays offline.")
		return
	}

	statusID, ok := b.sendStatus(msg.Chat.ID, "🔄 *Syncing recipe box...*")
	if !ok {
		return
	}

	posts, err := b.ghostClient.FetchRecipes()
	if err != nil {
		log.Printf("Error syncing recipe box: %v", err)
		b.editStatus(msg.Chat.ID, statusID, formatError("syncing recipe box", err))
		return
	}

	catalog := clipper.CatalogFromPosts(posts)
	if catalog.Empty() {
		b.editStatus(msg.Chat.ID, statusID, "⚠️ No parseable recipes in the recipe box; keeping the current catalog.")
		return
	}

	b.setCatalog(catalog)
	b.editStatus(msg.Chat.ID, statusID, fmt.Sprintf("✅ Catalog synced: %d recipe(s).", catalog.Len()))
}

// handlePublish posts the chat's current shopping list to the blog. The
// post is tagged "shopping-list", not "recipe", so /sync never reads it
// back into the catalog.
func (b *Bot) handlePublish(msg *tgbotapi.Message) {
	if b.ghostClient == nil {
		b.reply(msg.Chat.ID, "⚠️ Ghost is not configured; publishing is disabled.")
		return
	}

	ctx := context.Background()
	settings := b.settingsFor(ctx, msg.Chat.ID)

	statusID, ok := b.sendStatus(msg.Chat.ID, "📝 *Publishing shopping list...*")
	if !ok {
		return
	}

	_, list, err := b.generate(settings, true)
	if err != nil {
		log.Printf("Error generating list for chat %d: %v", msg.Chat.ID, err)
		b.editStatus(msg.Chat.ID, statusID, formatError("generating list", err))
		return
	}

	title := "Shopping List " + time.Now().Format("2006-01-02")
	post, err := b.ghostClient.CreatePost(title, render.HTML(list), []string{"shopping-list"}, true)
	if err != nil {
		log.Printf("Error publishing shopping list: %v", err)
		b.editStatus(msg.Chat.ID, statusID, formatError("publishing list", err))
		return
	}

	b.editStatus(msg.Chat.ID, statusID, fmt.Sprintf("✅ *Published!*\n\n*Title:* %s", post.Title))
}

func (b *Bot) handleHistory(msg *tgbotapi.Message) {
	runs, err := b.repo.ListRecent(context.Background(), msg.Chat.ID, 5)
	if err != nil {
		log.Printf("Error listing history for chat %d: %v", msg.Chat.ID, err)
		b.reply(msg.Chat.ID, formatError("listing history", err))
		return
	}
	b.reply(msg.Chat.ID, formatHistoryMarkdown(runs))
}

func (b *Bot) handleStatus(msg *tgbotapi.Message) {
	runs, err := b.repo.CountRuns(context.Background())
	if err != nil {
		log.Printf("Error counting plan runs: %v", err)
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))
	b.reply(msg.Chat.ID, formatStatusMarkdown(b.currentCatalog().Len(), runs, health))
}

func (b *Bot) handleClip(msg *tgbotapi.Message, pageURL string) {
	if b.clip == nil {
		b.reply(msg.Chat.ID, "⚠️ Ghost is not configured; clipping is disabled.")
		return
	}

	statusID, ok := b.sendStatus(msg.Chat.ID, "✂️ *Clipping recipe...*\n(Extracting and saving to the recipe box)")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	post, err := b.clip.ClipURL(ctx, pageURL)
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		b.editStatus(msg.Chat.ID, statusID, formatError("clipping recipe", err))
		return
	}

	b.editStatus(msg.Chat.ID, statusID,
		fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\nRun /sync to pull it into the catalog.", post.Title))
}

// settingsFor loads the chat's stored settings, falling back to defaults.
func (b *Bot) settingsFor(ctx context.Context, chatID int64) history.ChatSettings {
	stored, err := b.repo.GetSettings(ctx, chatID)
	if err != nil {
		log.Printf("Warning: failed to load settings for chat %d: %v", chatID, err)
	}
	if stored != nil {
		return *stored
	}
	return history.ChatSettings{
		ChatID:    chatID,
		Days:      defaultDays,
		MealTypes: []meal.Type{meal.Lunch, meal.Dinner},
		Strategy:  "random",
		Budget:    defaultBudget,
		Seed:      defaultSeed,
	}
}

func (b *Bot) saveSettings(ctx context.Context, settings history.ChatSettings) {
	if err := b.repo.SaveSettings(ctx, settings); err != nil {
		log.Printf("Warning: failed to save settings for chat %d: %v", settings.ChatID, err)
	}
}

func (b *Bot) pantryFrom(settings history.ChatSettings) (*pantry.Pantry, error) {
	if settings.PantrySpec == "" {
		return pantry.New(), nil
	}
	return pantry.ParseSpec(settings.PantrySpec)
}

func (b *Bot) currentCatalog() recipe.Catalog {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.catalog
}

func (b *Bot) setCatalog(c recipe.Catalog) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalog = c
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (b *Bot) sendStatus(chatID int64, text string) (int, bool) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return 0, false
	}
	return sent.MessageID, true
}

func (b *Bot) editStatus(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to edit status message: %v", err)
	}
}

func formatError(action string, err error) string {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ *Error %s:*\n```\n%v\n```", action, safeErr)
}

func formatPlanMarkdown(plan meal.Plan) string {
	var sb strings.Builder
	sb.WriteString("📅 *Meal Plan*\n")

	day := -1
	for _, slot := range plan.Slots {
		if slot.Day != day {
			day = slot.Day
			sb.WriteString(fmt.Sprintf("\n*Day %d*\n", day+1))
		}
		sb.WriteString(fmt.Sprintf("• %s: %s\n", titleCase(string(slot.Type)), slot.Recipe.Name))
	}

	return sb.String()
}

func formatListMarkdown(list grocery.ShoppingList) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")

	if list.Empty() {
		sb.WriteString("_Nothing to buy_ 🎉\n")
		return sb.String()
	}
	for _, item := range list.Items {
		sb.WriteString(fmt.Sprintf("• %s: %s %s\n",
			item.Name, render.FormatAmount(item.TotalAmount), strings.ToLower(string(item.Unit))))
	}

	return sb.String()
}

func formatPantryMarkdown(stock *pantry.Pantry) string {
	var sb strings.Builder
	sb.WriteString("🥫 *Pantry*\n\n")

	if stock.Len() == 0 {
		sb.WriteString("_Empty. Set it with /pantry set milk=500:ml,egg=4:pcs_\n")
		return sb.String()
	}
	for _, e := range stock.Entries() {
		sb.WriteString(fmt.Sprintf("• %s: %s %s\n",
			e.Name, render.FormatAmount(e.Amount), strings.ToLower(string(e.Unit))))
	}

	return sb.String()
}

func formatHistoryMarkdown(runs []history.Run) string {
	var sb strings.Builder
	sb.WriteString("🗂 *History*\n\n")

	if len(runs) == 0 {
		sb.WriteString("_No plans yet. Try /plan._\n")
		return sb.String()
	}
	for _, run := range runs {
		sb.WriteString(fmt.Sprintf("*#%d* %s · %s · %d day(s) · %d meal(s)\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Strategy, run.Days, len(run.Slots)))
	}

	return sb.String()
}

func formatStatusMarkdown(recipes int, runs int64, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("🩺 *Status*\n\n")
	sb.WriteString(fmt.Sprintf("• Recipes in catalog: %d\n", recipes))
	sb.WriteString(fmt.Sprintf("• Plans recorded: %d\n", runs))
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}

func formatTypes(types []meal.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = titleCase(string(t))
	}
	return strings.Join(parts, ", ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
