package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"smart-ats/internal/analyses"
	"smart-ats/internal/llm"
	"smart-ats/internal/llm/gemini"
	"smart-ats/internal/llm/ollama"
	"smart-ats/internal/llm/openai"
	"smart-ats/internal/services/health"
	"smart-ats/internal/shared/config"
	"smart-ats/internal/shared/server"
	"smart-ats/internal/shared/storage/db"
	"smart-ats/internal/shared/storage/object"
	localstore "smart-ats/internal/shared/storage/object/local"
	s3store "smart-ats/internal/shared/storage/object/s3"
	"smart-ats/internal/shared/telemetry"
)

// Default model per provider when LLM_MODEL is unset.
var defaultModels = map[string]string{
	"ollama": llm.DefaultModel,
	"openai": "gpt-4o-mini",
	"gemini": "gemini-2.5-flash",
}

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	LLM             llm.Client
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	if err := buildServices(ctx, app, repoFor(sqlDB)); err != nil {
		if sqlDB != nil {
			sqlDB.Close()
		}
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		Health:          health.NewService(sqlDB),
	})
	return app, nil
}

// NewService builds an analysis service backed by repo, for callers that own their storage.
func NewService(ctx context.Context, cfg config.Config, repo analyses.Repo) (*analyses.Service, error) {
	app := &App{Config: cfg}
	if err := buildServices(ctx, app, repo); err != nil {
		return nil, err
	}
	return app.AnalysesService, nil
}

// Close releases the database pool when one was opened.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// ModelFor returns the configured model or the provider default.
func ModelFor(cfg config.Config) string {
	return llm.Pick(cfg.LLMModel, defaultModels[cfg.LLMProvider])
}

// BuildLLM constructs the client for the configured provider. LLM_RETRY adds one retry on
// transient failures.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	model := ModelFor(cfg)
	var client llm.Client
	switch cfg.LLMProvider {
	case "", "ollama":
		client = ollama.NewClient(cfg.OllamaURL, model, cfg.LLMTimeout)
	case "openai":
		c, err := openai.NewClient(cfg.OpenAIAPIKey, model, cfg.OpenAIBaseURL, cfg.LLMTimeout)
		if err != nil {
			return nil, err
		}
		client = c
	case "gemini":
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, model, cfg.LLMTimeout)
		if err != nil {
			return nil, err
		}
		client = c
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
	if cfg.LLMRetry {
		return llm.WithRetry(client), nil
	}
	return client, nil
}

// BuildStore constructs the archive store; ARCHIVE_STORE=none yields nil.
func BuildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ArchiveStore {
	case "", "none":
		return nil, nil
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unsupported ARCHIVE_STORE %q", cfg.ArchiveStore)
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.memory_history", map[string]any{"reason": "DATABASE_URL empty"})
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
			sqlDB = nil
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_history", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func repoFor(sqlDB *sql.DB) analyses.Repo {
	if sqlDB != nil {
		return &analyses.PGRepo{DB: sqlDB}
	}
	return analyses.NewMemoryRepo(analyses.DefaultMemoryCapacity)
}

func buildServices(ctx context.Context, app *App, repo analyses.Repo) error {
	store, err := BuildStore(ctx, app.Config)
	if err != nil {
		return err
	}
	client, err := BuildLLM(ctx, app.Config)
	if err != nil {
		return err
	}

	svc := &analyses.Service{
		Repo:     repo,
		LLM:      client,
		Store:    store,
		Skills:   app.Config.Skills,
		Provider: llm.Pick(app.Config.LLMProvider, "ollama"),
		Model:    ModelFor(app.Config),
	}

	app.Store = store
	app.LLM = client
	app.AnalysesRepo = repo
	app.AnalysesService = svc
	app.AnalysisHandler = analyses.NewHandler(svc, app.Config.MaxUploadBytes, app.Config.HistoryLimit)
	app.AnalysisHandler.EndpointHosts = app.Config.LLMEndpointHosts
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
