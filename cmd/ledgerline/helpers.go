package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ledgerline/ledgerline/internal/classify"
	"github.com/ledgerline/ledgerline/internal/dedup"
	"github.com/ledgerline/ledgerline/internal/detect"
	"github.com/ledgerline/ledgerline/internal/ingest"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/normalize"
	"github.com/ledgerline/ledgerline/internal/service"
	"github.com/ledgerline/ledgerline/internal/source"
	"github.com/ledgerline/ledgerline/internal/storage"
)

// pipeline bundles everything a command needs.
type pipeline struct {
	store   *storage.SQLiteStorage
	manager *ingest.Manager
	bridge  *source.ChannelBridge
}

func databasePath() string {
	if path := viper.GetString("database.path"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "ledgerline.db"
	}
	return filepath.Join(home, ".local", "share", "ledgerline", "ledgerline.db")
}

// buildPipeline constructs the full ingestion stack from configuration.
// Services are dependency-injected here, once, and passed by reference.
func buildPipeline(ctx context.Context) (*pipeline, error) {
	store, err := storage.NewSQLiteStorage(databasePath())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	configs, err := loadBankConfigurations(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if err := seedCategories(ctx, store); err != nil {
		_ = store.Close()
		return nil, err
	}

	detector, err := detect.New(configs)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build detector: %w", err)
	}

	classifier, err := buildClassifier(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	dedupEngine := dedup.New(dedupOptions())
	persister := ingest.NewPersister(store, dedupEngine)

	settings := settingsFromConfig()
	settings.BankConfigurations = configs

	svc := ingest.NewService(normalize.New(), detector, classifier, persister, settings)

	platform := source.DetectPlatform(viper.GetString("platform"))
	bridge := source.NewChannelBridge()
	sources := source.ForPlatform(platform, bridge)

	return &pipeline{
		store:   store,
		manager: ingest.NewManager(svc, sources...),
		bridge:  bridge,
	}, nil
}

// loadBankConfigurations reads stored configurations, seeding the built-in
// set on first run.
func loadBankConfigurations(ctx context.Context, store *storage.SQLiteStorage) ([]model.BankConfiguration, error) {
	configs, err := store.GetBankConfigurations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank configurations: %w", err)
	}
	if len(configs) > 0 {
		return configs, nil
	}

	configs = detect.DefaultBankConfigurations()
	for i := range configs {
		if err := detect.ValidateConfiguration(configs[i]); err != nil {
			return nil, err
		}
		if err := store.SaveBankConfiguration(ctx, &configs[i]); err != nil {
			return nil, fmt.Errorf("seed bank configuration %s: %w", configs[i].ID, err)
		}
	}
	return configs, nil
}

// defaultCategories is the category reference data created on first run. It
// covers every category the built-in keyword rules can assign.
var defaultCategories = []struct {
	name string
	kind model.CategoryType
}{
	{"Salary", model.CategoryTypeIncome},
	{"Interest", model.CategoryTypeIncome},
	{"Refunds", model.CategoryTypeIncome},
	{"Other Income", model.CategoryTypeIncome},
	{"Transfers", model.CategoryTypeSystem},
	{"Groceries", model.CategoryTypeExpense},
	{"Dining Out", model.CategoryTypeExpense},
	{"Transport", model.CategoryTypeExpense},
	{"Shopping", model.CategoryTypeExpense},
	{"Utilities", model.CategoryTypeExpense},
	{"Housing", model.CategoryTypeExpense},
	{"Subscriptions", model.CategoryTypeExpense},
	{"Healthcare", model.CategoryTypeExpense},
	{"Cash", model.CategoryTypeExpense},
	{"Uncategorized", model.CategoryTypeExpense},
}

func seedCategories(ctx context.Context, store *storage.SQLiteStorage) error {
	existing, err := store.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, cat := range defaultCategories {
		if _, err := store.CreateCategory(ctx, cat.name, "", cat.kind); err != nil {
			return fmt.Errorf("seed category %q: %w", cat.name, err)
		}
	}
	return nil
}

func buildClassifier(ctx context.Context, store *storage.SQLiteStorage) (service.Classifier, error) {
	switch provider := viper.GetString("classifier.provider"); provider {
	case "", "keyword":
		return classify.NewKeywordClassifier(classify.DefaultRules())
	case "gemini":
		categories, err := store.GetCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		names := make([]string, len(categories))
		for i, cat := range categories {
			names[i] = cat.Name
		}
		return classify.NewGeminiClassifier(ctx, viper.GetString("classifier.model"), names)
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", provider)
	}
}

func settingsFromConfig() model.IngestionSettings {
	settings := model.DefaultIngestionSettings()

	if viper.IsSet("ingestion.auto_detection_enabled") {
		settings.AutoDetectionEnabled = viper.GetBool("ingestion.auto_detection_enabled")
	}
	if viper.IsSet("ingestion.confidence_threshold") {
		settings.ConfidenceThreshold = viper.GetFloat64("ingestion.confidence_threshold")
	}
	if viper.IsSet("ingestion.sources.android_sms") {
		settings.AndroidSMSEnabled = viper.GetBool("ingestion.sources.android_sms")
	}
	if viper.IsSet("ingestion.sources.notifications") {
		settings.NotificationsEnabled = viper.GetBool("ingestion.sources.notifications")
	}
	if viper.IsSet("ingestion.sources.email") {
		settings.EmailParsingEnabled = viper.GetBool("ingestion.sources.email")
	}
	if viper.IsSet("ingestion.sources.manual") {
		settings.ManualScanEnabled = viper.GetBool("ingestion.sources.manual")
	}
	if viper.IsSet("ingestion.auto_category_enabled") {
		settings.AutoCategoryEnabled = viper.GetBool("ingestion.auto_category_enabled")
	}
	if viper.IsSet("ingestion.debug_mode") {
		settings.DebugMode = viper.GetBool("ingestion.debug_mode")
	}
	return settings
}

func dedupOptions() dedup.Options {
	opts := dedup.DefaultOptions()
	if viper.IsSet("dedup.similarity_threshold") {
		opts.SimilarityThreshold = viper.GetFloat64("dedup.similarity_threshold")
	}
	if viper.IsSet("dedup.time_window_seconds") {
		opts.TimeWindow = time.Duration(viper.GetInt("dedup.time_window_seconds")) * time.Second
	}
	if viper.IsSet("dedup.amount_tolerance") {
		opts.AmountTolerance = viper.GetFloat64("dedup.amount_tolerance")
	}
	if viper.GetString("dedup.hash_granularity") == "minute" {
		opts.HashGranularity = model.GranularityMinute
	}
	return opts
}

func activeIdentity() (userID, accountID string) {
	userID = viper.GetString("user_id")
	if userID == "" {
		userID = "local"
	}
	accountID = viper.GetString("account_id")
	if accountID == "" {
		accountID = "default"
	}
	return userID, accountID
}
