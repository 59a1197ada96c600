// Package history persists planning runs and per-chat bot settings in
// SQLite, so previous shopping lists can be recalled and the bot remembers
// each chat's preferences.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/NoMooncake/meal-planner/internal/grocery"
	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/units"
)

// Run is one recorded planning run. Plans are stored by recipe name only;
// the catalog itself is not duplicated into history.
type Run struct {
	ID        int64
	ChatID    int64
	Strategy  string
	Days      int
	MealTypes []meal.Type
	Slots     []Slot
	Items     []grocery.Item
	CreatedAt time.Time
}

// Slot is one recorded plan assignment.
type Slot struct {
	Day    int
	Meal   meal.Type
	Recipe string
}

// ChatSettings are the per-chat planning defaults the bot applies when a
// command does not override them.
type ChatSettings struct {
	ChatID     int64
	Days       int
	MealTypes  []meal.Type
	Strategy   string
	Budget     float64
	Seed       int64
	PantrySpec string
	UpdatedAt  time.Time
}

// JSON shapes for the plan_data and list_data columns.
type slotRecord struct {
	Day    int    `json:"day"`
	Meal   string `json:"meal"`
	Recipe string `json:"recipe"`
}

type planRecord struct {
	Slots []slotRecord `json:"slots"`
}

type itemRecord struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type listRecord struct {
	Items []itemRecord `json:"items"`
}

// Repository handles persistence of planning runs and chat settings.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new history repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveRun records a completed planning run and returns its ID.
func (r *Repository) SaveRun(ctx context.Context, chatID int64, strategyName string, days int, mealTypes []meal.Type, plan meal.Plan, list grocery.ShoppingList) (int64, error) {
	planJSON, err := marshalPlan(plan)
	if err != nil {
		return 0, err
	}
	listJSON, err := marshalList(list)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO plan_runs (chat_id, strategy, days, meal_types, plan_data, list_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		chatID, strategyName, days, joinTypes(mealTypes), planJSON, listJSON, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert plan run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read plan run ID: %w", err)
	}
	return id, nil
}

// ListRecent returns the newest runs for a chat, most recent first. A
// non-positive limit defaults to 10.
func (r *Repository) ListRecent(ctx context.Context, chatID int64, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, chat_id, strategy, days, meal_types, plan_data, list_data, created_at
		 FROM plan_runs WHERE chat_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plan runs: %w", err)
	}
	return runs, nil
}

// CountRuns returns the total number of recorded plan runs.
func (r *Repository) CountRuns(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plan_runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count plan runs: %w", err)
	}
	return n, nil
}

// GetRun retrieves a single run by ID, or nil when it does not exist.
func (r *Repository) GetRun(ctx context.Context, id int64) (*Run, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, chat_id, strategy, days, meal_types, plan_data, list_data, created_at
		 FROM plan_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No run found
		}
		return nil, err
	}
	return &run, nil
}

// SaveSettings inserts or updates the defaults for a chat.
func (r *Repository) SaveSettings(ctx context.Context, s ChatSettings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_settings (chat_id, days, meal_types, strategy, budget, seed, pantry_spec, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET
		   days = excluded.days,
		   meal_types = excluded.meal_types,
		   strategy = excluded.strategy,
		   budget = excluded.budget,
		   seed = excluded.seed,
		   pantry_spec = excluded.pantry_spec,
		   updated_at = excluded.updated_at`,
		s.ChatID, s.Days, joinTypes(s.MealTypes), s.Strategy, s.Budget, s.Seed, s.PantrySpec, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save chat settings: %w", err)
	}
	return nil
}

// GetSettings retrieves a chat's defaults, or nil when none are stored yet.
func (r *Repository) GetSettings(ctx context.Context, chatID int64) (*ChatSettings, error) {
	var (
		s        ChatSettings
		typesCSV string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT chat_id, days, meal_types, strategy, budget, seed, pantry_spec, updated_at
		 FROM chat_settings WHERE chat_id = ?`, chatID).
		Scan(&s.ChatID, &s.Days, &typesCSV, &s.Strategy, &s.Budget, &s.Seed, &s.PantrySpec, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No settings stored
		}
		return nil, fmt.Errorf("failed to get chat settings: %w", err)
	}
	types, err := meal.ParseTypes(typesCSV)
	if err != nil {
		return nil, fmt.Errorf("stored meal types are corrupt: %w", err)
	}
	s.MealTypes = types
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run      Run
		typesCSV string
		planJSON string
		listJSON string
	)
	if err := row.Scan(&run.ID, &run.ChatID, &run.Strategy, &run.Days,
		&typesCSV, &planJSON, &listJSON, &run.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan plan run: %w", err)
	}

	types, err := meal.ParseTypes(typesCSV)
	if err != nil {
		return Run{}, fmt.Errorf("stored meal types are corrupt: %w", err)
	}
	run.MealTypes = types

	var plan planRecord
	if err := json.Unmarshal([]byte(planJSON), &plan); err != nil {
		return Run{}, fmt.Errorf("failed to unmarshal plan data: %w", err)
	}
	for _, s := range plan.Slots {
		run.Slots = append(run.Slots, Slot{Day: s.Day, Meal: meal.Type(s.Meal), Recipe: s.Recipe})
	}

	var list listRecord
	if err := json.Unmarshal([]byte(listJSON), &list); err != nil {
		return Run{}, fmt.Errorf("failed to unmarshal list data: %w", err)
	}
	for _, item := range list.Items {
		run.Items = append(run.Items, grocery.Item{
			Name:        item.Name,
			Unit:        units.Unit(item.Unit),
			TotalAmount: item.Amount,
		})
	}
	return run, nil
}

func marshalPlan(plan meal.Plan) (string, error) {
	rec := planRecord{Slots: make([]slotRecord, 0, plan.Len())}
	for _, s := range plan.Slots {
		rec.Slots = append(rec.Slots, slotRecord{
			Day:    s.Day,
			Meal:   string(s.Type),
			Recipe: s.Recipe.Name,
		})
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan data: %w", err)
	}
	return string(data), nil
}

func marshalList(list grocery.ShoppingList) (string, error) {
	rec := listRecord{Items: make([]itemRecord, 0, list.Len())}
	for _, item := range list.Items {
		rec.Items = append(rec.Items, itemRecord{
			Name:   item.Name,
			Amount: item.TotalAmount,
			Unit:   string(item.Unit),
		})
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal list data: %w", err)
	}
	return string(data), nil
}

func joinTypes(types []meal.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
