package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/NoMooncake/meal-planner/internal/database"
	"github.com/NoMooncake/meal-planner/internal/grocery"
	"github.com/NoMooncake/meal-planner/internal/history"
	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/pantry"
	"github.com/NoMooncake/meal-planner/internal/planner"
	"github.com/NoMooncake/meal-planner/internal/planner/strategy"
	"github.com/NoMooncake/meal-planner/internal/pricing"
	"github.com/NoMooncake/meal-planner/internal/recipe"
	"github.com/NoMooncake/meal-planner/internal/render"
	"github.com/NoMooncake/meal-planner/internal/storage"
)

func main() {
	var (
		days        = flag.Int("days", 2, "number of days to plan")
		meals       = flag.String("meals", "lunch,dinner", "comma-separated meal types (breakfast, lunch, dinner)")
		seed        = flag.Int64("seed", 7, "seed for the random strategy")
		strategyArg = flag.String("strategy", "random", "planning strategy: random, pantry-first or budget")
		budget      = flag.Float64("budget", 50.0, "budget for the budget strategy")
		pantrySpec  = flag.String("pantry", "", "inline pantry spec, e.g. milk=500:ml,egg=4:pcs")
		pantryFile  = flag.String("pantry-file", "", "pantry JSON file")
		catalogFile = flag.String("catalog", "", "catalog JSON file (built-in samples when empty)")
		csvPath     = flag.String("csv", "", "write the shopping list as CSV to this file")
		historyPath = flag.String("history", "", "record the run in this SQLite database")
	)
	flag.Usage = printUsage
	flag.Parse()

	// 1. Validate flags
	mealTypes, err := meal.ParseTypes(*meals)
	if err != nil {
		usageError(err)
	}
	if *days < 1 {
		usageError(errors.New("days must be at least 1"))
	}
	switch *strategyArg {
	case "random", "pantry-first", "budget":
	default:
		usageError(fmt.Errorf("unknown strategy %q", *strategyArg))
	}
	if *pantrySpec != "" && *pantryFile != "" {
		usageError(errors.New("use either --pantry or --pantry-file, not both"))
	}

	// 2. Load the catalog and pantry
	catalog := recipe.SampleCatalog()
	if *catalogFile != "" {
		catalog, err = storage.LoadCatalog(*catalogFile)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
	}

	stock := pantry.New()
	if *pantrySpec != "" {
		stock, err = pantry.ParseSpec(*pantrySpec)
		if err != nil {
			usageError(err)
		}
	} else if *pantryFile != "" {
		stock, err = storage.LoadPantry(*pantryFile)
		if err != nil {
			log.Fatalf("Failed to load pantry: %v", err)
		}
	}

	// 3. Build the strategy and planner
	var strat strategy.Strategy
	switch *strategyArg {
	case "pantry-first":
		strat = strategy.NewPantryFirst(stock)
	case "budget":
		strat, err = strategy.NewBudgetAware(pricing.SampleBook(), *budget)
		if err != nil {
			usageError(err)
		}
	default:
		strat = strategy.NewRandom(*seed)
	}

	p, err := planner.New(catalog, strat)
	if err != nil {
		log.Fatalf("Failed to build planner: %v", err)
	}

	// 4. Generate the plan and the shopping list that covers it
	plan, err := p.Plan(*days, mealTypes)
	if err != nil {
		log.Fatalf("Failed to generate plan: %v", err)
	}
	list := grocery.FromPlanWithPantry(plan, stock)

	// 5. Render to stdout
	printPlan(plan)
	fmt.Println()
	fmt.Print(render.Text(list))

	// 6. Optional outputs
	if *csvPath != "" {
		writeCSV(*csvPath, list)
	}
	if *historyPath != "" {
		recordRun(*historyPath, *strategyArg, *days, mealTypes, plan, list)
	}
}

func printPlan(plan meal.Plan) {
	fmt.Println("== Meal Plan ==")
	for _, slot := range plan.Slots {
		fmt.Println(slot.String())
	}
}

func writeCSV(path string, list grocery.ShoppingList) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create CSV file: %v", err)
	}
	if err := render.CSV(f, list); err != nil {
		f.Close()
		log.Fatalf("Failed to write CSV: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close CSV file: %v", err)
	}
	fmt.Printf("Wrote shopping list CSV to %s\n", path)
}

func recordRun(path, strategyName string, days int, mealTypes []meal.Type, plan meal.Plan, list grocery.ShoppingList) {
	db, err := database.NewDB(path)
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer db.Close()

	// Chat id 0 marks CLI runs.
	repo := history.NewRepository(db.SQL)
	id, err := repo.SaveRun(context.Background(), 0, strategyName, days, mealTypes, plan, list)
	if err != nil {
		log.Fatalf("Failed to record run: %v", err)
	}
	fmt.Printf("Recorded run #%d in %s\n", id, path)
}

func usageError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
	flag.Usage()
	os.Exit(2)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: meal-planner [flags]")
	fmt.Fprintln(os.Stderr, "\nGenerates a meal plan and the shopping list that covers it.")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
