package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"pregnancy-companion/internal/app"
	"pregnancy-companion/internal/closer"
	"pregnancy-companion/internal/config"
	"pregnancy-companion/internal/database"
	"pregnancy-companion/internal/journal"
	"pregnancy-companion/internal/metrics"
	"pregnancy-companion/internal/notes"
	"pregnancy-companion/internal/nutrition"
	"pregnancy-companion/internal/profile"
	"pregnancy-companion/internal/refdata"
	"pregnancy-companion/internal/storage"
	"pregnancy-companion/internal/symptoms"
	"pregnancy-companion/internal/tasktracker"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "week":
		fmt.Println(buildApp(cfg).WeekSummary())
	case "report":
		fmt.Println(buildApp(cfg).WeeklyReport())
	case "set-lmp":
		setProfileDate(cfg, os.Args[2:], true)
	case "set-duedate":
		setProfileDate(cfg, os.Args[2:], false)
	case "add-allergy":
		if len(os.Args) < 3 {
			log.Fatal("Usage: pregnancy-companion add-allergy <name>")
		}
		application := buildApp(cfg)
		application.Profile.AddAllergy(os.Args[2])
		fmt.Printf("Noted %s as an allergy.\n", strings.ToLower(os.Args[2]))
	case "add-preference":
		if len(os.Args) < 3 {
			log.Fatal("Usage: pregnancy-companion add-preference <name>")
		}
		application := buildApp(cfg)
		application.Profile.AddFoodPreference(os.Args[2])
		fmt.Printf("Noted %s as a food preference.\n", strings.ToLower(os.Args[2]))
	case "check-food":
		if len(os.Args) < 3 {
			log.Fatal("Usage: pregnancy-companion check-food <food>")
		}
		fmt.Println(buildApp(cfg).HandleFood(strings.Join(os.Args[2:], " ")))
	case "recommend":
		recommendCmd := flag.NewFlagSet("recommend", flag.ExitOnError)
		limit := recommendCmd.Int("limit", 5, "Maximum number of suggestions")
		recommendCmd.Parse(os.Args[2:])
		fmt.Println(buildApp(cfg).Recommendations(*limit))
	case "import-foods":
		if len(os.Args) < 3 {
			log.Fatal("Usage: pregnancy-companion import-foods <url>")
		}
		importer := refdata.NewImporter()
		guide, err := importer.ImportURL(os.Args[2], cfg.DataDir)
		if err != nil {
			log.Fatalf("Food guide import failed: %v", err)
		}
		fmt.Printf("Imported %d foods to avoid and %d safe foods.\n",
			len(guide.FoodsToAvoid), len(guide.AllSafeFoods()))
	case "migrate-journal":
		migrateJournal(cfg)
	case "metrics-usage":
		usageCmd := flag.NewFlagSet("metrics-usage", flag.ExitOnError)
		days := usageCmd.Int("days", 7, "Show usage for the last N days")
		usageCmd.Parse(os.Args[2:])

		db := openDB(cfg)
		defer db.Close()

		usage, err := metrics.NewStore(db.SQL).GetDailyUsage(*days)
		if err != nil {
			log.Fatalf("Failed to query usage: %v", err)
		}
		for _, day := range usage {
			fmt.Printf("%s  %d calls  avg %.0fms\n", day.Date, day.Calls, day.AvgLatency)
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		db := openDB(cfg)
		defer db.Close()

		affected, err := metrics.NewStore(db.SQL).Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// buildApp wires the stores and core services for one CLI invocation.
func buildApp(cfg *config.Config) *app.App {
	foodGuide := refdata.LoadFoodGuide(cfg.DataDir)
	weekGuide := refdata.LoadWeekGuide(cfg.DataDir)
	symptomGuide := refdata.LoadSymptomGuide(cfg.DataDir)

	profileStore, err := storage.NewProfileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize profile store: %v", err)
	}

	var history journal.HistoryStore
	if cfg.StorageBackend == "sqlite" {
		db := openDB(cfg)
		history = journal.NewRepository(db.SQL)
	} else {
		journalStore, err := storage.NewJournalStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize journal store: %v", err)
		}
		history = journalStore
	}

	taskLogStore, err := storage.NewTaskLogStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize task log store: %v", err)
	}

	profileMgr := profile.NewManager(profileStore, weekGuide)
	session := journal.NewSession(history, profileMgr)
	analyzer := symptoms.NewAnalyzer(symptomGuide)
	advisor := nutrition.NewAdvisor(foodGuide, profileMgr)
	selector := closer.NewSelector(nil)

	return app.NewApp(profileMgr, session, analyzer, advisor, selector, history,
		tasktracker.NewClient(cfg), notes.NewClient(cfg), taskLogStore)
}

func openDB(cfg *config.Config) *database.DB {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return db
}

func setProfileDate(cfg *config.Config, args []string, isLMP bool) {
	name := "set-duedate"
	if isLMP {
		name = "set-lmp"
	}
	if len(args) < 1 {
		log.Fatalf("Usage: pregnancy-companion %s <YYYY-MM-DD>", name)
	}
	date, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		log.Fatalf("Invalid date %q, expected YYYY-MM-DD", args[0])
	}

	application := buildApp(cfg)
	if isLMP {
		application.Profile.SetLMP(date)
	} else {
		application.Profile.SetDueDate(date)
	}

	if week, trimester, ok := application.Profile.CurrentWeek(); ok {
		fmt.Printf("Profile saved. Current week %d, trimester %d.\n", week, trimester)
	} else {
		fmt.Println("Profile saved.")
	}
}

// migrateJournal copies file-based journal entries into the SQLite backend.
func migrateJournal(cfg *config.Config) {
	journalStore, err := storage.NewJournalStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open file journal store: %v", err)
	}
	entries, err := journalStore.Load()
	if err != nil {
		log.Fatalf("Failed to read journal entries: %v", err)
	}

	db := openDB(cfg)
	defer db.Close()
	repo := journal.NewRepository(db.SQL)

	migrated := 0
	for _, entry := range entries {
		if err := repo.Append(entry); err != nil {
			log.Printf("Warning: skipping entry %s: %v", entry.ID, err)
			continue
		}
		migrated++
	}
	fmt.Printf("Migrated %d of %d journal entries to %s.\n", migrated, len(entries), cfg.DatabasePath)
}

func printUsage() {
	fmt.Println("Usage: pregnancy-companion <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  week               Show the current pregnancy week summary")
	fmt.Println("  report             Show the weekly journal trend report")
	fmt.Println("  set-lmp            Record the last menstrual period date")
	fmt.Println("  set-duedate        Record the due date")
	fmt.Println("  add-allergy        Record a food allergy")
	fmt.Println("  add-preference     Record a food preference")
	fmt.Println("  check-food         Check whether a food is safe")
	fmt.Println("  recommend          Suggest safe foods for the current trimester")
	fmt.Println("  import-foods       Import a food guide from a web page")
	fmt.Println("  migrate-journal    Copy file-based journal entries into SQLite")
	fmt.Println("  metrics-usage      Show daily chat model usage")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
