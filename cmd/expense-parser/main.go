package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/expense-parser/internal/categorize"
	"github.com/zombor/expense-parser/internal/entity"
	"github.com/zombor/expense-parser/internal/receipt"
	"github.com/zombor/expense-parser/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

type config struct {
	port          int
	engine        string
	geminiKey     string
	geminiModel   string
	ollamaURL     string
	ollamaModel   string
	tesseractBin  string
	tesseractLang string
	ocrCache      string
	categorizer   string
	categoryModel string
	categories    string
	gazetteer     string
	dayFirst      bool
	maxUploadMB   int
	serialize     bool
	authUser      string
	authPass      string
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// A missing .env file is fine
	_ = godotenv.Load()

	fs := ff.NewFlagSet("expense-parser")
	var (
		port            = fs.IntLong("port", 8000, "HTTP server port")
		engine          = fs.StringLong("engine", "gemini", "Text engine: 'gemini', 'ollama' or 'tesseract'")
		geminiKey       = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel     = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL       = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel     = fs.StringLong("ollama-model", "llava", "Ollama vision model name (e.g., llava, qwen2-vl, llama3.2-vision)")
		tesseractBin    = fs.StringLong("tesseract-bin", "tesseract", "Path to the tesseract binary")
		tesseractLang   = fs.StringLong("tesseract-lang", "eng", "Tesseract languages (e.g., eng or eng+hin)")
		ocrCache        = fs.StringLong("ocr-cache", "", "Cache recognized text in this bolt file (optional)")
		categorizerName = fs.StringLong("categorizer", "keyword", "Categorizer: 'keyword' or 'gemini'")
		categoryModel   = fs.StringLong("category-model", "", "Keyword model YAML file (default: built in)")
		categories      = fs.StringLong("categories", "", "Comma separated labels for the gemini categorizer (default: keyword model labels)")
		gazetteer       = fs.StringLong("gazetteer", "", "Known merchants YAML file (default: built in)")
		dayFirst        = fs.BoolLong("day-first", "Read ambiguous dates like 05/12/2024 as day/month")
		maxUploadMB     = fs.IntLong("max-upload-mb", 10, "Largest accepted upload in MB")
		serialize       = fs.BoolLong("serialize", "Run one text extraction and one categorization at a time")
		authUser        = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass        = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logLevel        = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		logFormat       = fs.StringLong("log-format", "tint", "Log format: 'tint', 'json' or 'text'")
		showVersion     = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("EXPENSE_PARSER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg := config{
		port:          *port,
		engine:        *engine,
		geminiKey:     *geminiKey,
		geminiModel:   *geminiModel,
		ollamaURL:     *ollamaURL,
		ollamaModel:   *ollamaModel,
		tesseractBin:  *tesseractBin,
		tesseractLang: *tesseractLang,
		ocrCache:      *ocrCache,
		categorizer:   *categorizerName,
		categoryModel: *categoryModel,
		categories:    *categories,
		gazetteer:     *gazetteer,
		dayFirst:      *dayFirst,
		maxUploadMB:   *maxUploadMB,
		serialize:     *serialize,
		authUser:      *authUser,
		authPass:      *authPass,
	}

	logger, err := newLogger(*logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	slog.Info("Starting expense-parser", "version", version)

	extractor, err := newTextExtractor(cfg)
	if err != nil {
		slog.Error("Failed to initialize text engine", "engine", cfg.engine, "error", err)
		os.Exit(1)
	}
	defer extractor.Close()

	entities, err := newEntityExtractor(cfg)
	if err != nil {
		slog.Error("Failed to initialize entity extractor", "error", err)
		os.Exit(1)
	}

	categorizer, err := newCategorizer(cfg)
	if err != nil {
		slog.Error("Failed to initialize categorizer", "categorizer", cfg.categorizer, "error", err)
		os.Exit(1)
	}

	receiptService := receipt.NewServiceWithLimits(extractor, entities, categorizer, receipt.Limits{
		MaxImageBytes: int64(cfg.maxUploadMB) << 20,
	})

	basicAuth := receipt.BasicAuth{
		Username: cfg.authUser,
		Password: cfg.authPass,
	}
	server := receipt.NewServer(receiptService, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", cfg.port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if cfg.authUser != "" || cfg.authPass != "" {
		slog.Info("Basic auth enabled", "user", cfg.authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}

func newLogger(level string, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "tint":
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      lvl,
			TimeFormat: time.RFC3339,
		})), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: want tint, json or text", format)
	}
}

func newTextExtractor(cfg config) (scanning.TextExtractor, error) {
	var (
		extractor scanning.TextExtractor
		err       error
	)

	switch cfg.engine {
	case "gemini":
		apiKey := geminiKey(cfg)
		if apiKey == "" {
			return nil, errors.New("gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
		}
		slog.Info("Initializing Gemini engine...", "model", cfg.geminiModel)
		extractor, err = scanning.NewGemini(apiKey, cfg.geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama engine...", "url", cfg.ollamaURL, "model", cfg.ollamaModel)
		extractor, err = scanning.NewOllama(cfg.ollamaURL, cfg.ollamaModel)
	case "tesseract":
		slog.Info("Initializing Tesseract engine...", "binary", cfg.tesseractBin, "languages", cfg.tesseractLang)
		extractor, err = scanning.NewTesseract(cfg.tesseractBin, cfg.tesseractLang)
	default:
		return nil, fmt.Errorf("invalid engine %q: want gemini, ollama or tesseract", cfg.engine)
	}
	if err != nil {
		return nil, err
	}

	if cfg.serialize {
		extractor = scanning.NewSerialized(extractor)
	}

	if cfg.ocrCache != "" {
		slog.Info("Opening OCR cache...", "path", cfg.ocrCache)
		cache, err := scanning.OpenTextCache(cfg.ocrCache)
		if err != nil {
			extractor.Close()
			return nil, err
		}
		extractor = scanning.NewCachedExtractor(extractor, cache)
	}
	return extractor, nil
}

func newEntityExtractor(cfg config) (*entity.Extractor, error) {
	var (
		gazetteer *entity.Gazetteer
		err       error
	)
	if cfg.gazetteer != "" {
		gazetteer, err = entity.LoadGazetteer(cfg.gazetteer)
	} else {
		gazetteer, err = entity.DefaultGazetteer()
	}
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded merchant gazetteer", "variants", gazetteer.Len())

	return entity.NewExtractor(entity.NewRuleTagger(gazetteer), entity.NewFuzzyDateParser(cfg.dayFirst)), nil
}

// newCategorizer builds the categorizer lazily; a model that fails to load
// leaves every receipt Uncategorized instead of stopping the server.
func newCategorizer(cfg config) (categorize.Categorizer, error) {
	loadKeywords := func() (*categorize.KeywordModel, error) {
		if cfg.categoryModel != "" {
			return categorize.LoadKeywordModel(cfg.categoryModel)
		}
		return categorize.DefaultKeywordModel()
	}

	var categorizer categorize.Categorizer
	switch cfg.categorizer {
	case "keyword":
		categorizer = categorize.NewLazy(func() (categorize.Categorizer, error) {
			model, err := loadKeywords()
			if err != nil {
				return nil, err
			}
			slog.Info("Loaded keyword category model", "labels", len(model.Labels()))
			return model, nil
		})
	case "gemini":
		apiKey := geminiKey(cfg)
		if apiKey == "" {
			return nil, errors.New("gemini API key is required for the gemini categorizer")
		}
		categorizer = categorize.NewLazy(func() (categorize.Categorizer, error) {
			labels := splitLabels(cfg.categories)
			if len(labels) == 0 {
				model, err := loadKeywords()
				if err != nil {
					return nil, err
				}
				labels = model.Labels()
			}
			slog.Info("Initializing Gemini categorizer...", "model", cfg.geminiModel, "labels", len(labels))
			return categorize.NewGemini(apiKey, cfg.geminiModel, labels)
		})
	default:
		return nil, fmt.Errorf("invalid categorizer %q: want keyword or gemini", cfg.categorizer)
	}

	if cfg.serialize {
		categorizer = categorize.NewSerialized(categorizer)
	}
	return categorizer, nil
}

func geminiKey(cfg config) string {
	if cfg.geminiKey != "" {
		return cfg.geminiKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

func splitLabels(list string) []string {
	var labels []string
	for _, label := range strings.Split(list, ",") {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}
