package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/lingodeck/lingodeck/internal/adapters/api"
	chainsource "github.com/lingodeck/lingodeck/internal/adapters/credentials/chain"
	envsource "github.com/lingodeck/lingodeck/internal/adapters/credentials/env"
	filesource "github.com/lingodeck/lingodeck/internal/adapters/credentials/file"
	"github.com/lingodeck/lingodeck/internal/adapters/download"
	"github.com/lingodeck/lingodeck/internal/adapters/metrics/jsonl"
	tomlrepo "github.com/lingodeck/lingodeck/internal/adapters/repo/toml"
	statusadapter "github.com/lingodeck/lingodeck/internal/adapters/render/status"
	"github.com/lingodeck/lingodeck/internal/application"
	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

type app struct {
	sync         *application.SyncService
	cache        *application.CacheService
	tokenStore   *filesource.Source
	recordsPath  string
	statusRender func([]domain.SessionRecord, *application.LessonCacheStatus, statusadapter.RenderOptions) (string, error)
	now          func() time.Time
}

func wireApp() (*app, error) {
	records, err := tomlrepo.NewRecordRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire record repository: %w", err)
	}

	tombstones, err := tomlrepo.NewTombstoneRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire tombstone repository: %w", err)
	}

	index, err := tomlrepo.NewIndexRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire cache index repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	dataDir := filepath.Join(homeDir, ".lingodeck")

	tokenStore := filesource.NewSource(filepath.Join(dataDir, "token"))
	credentials, err := chainsource.NewSource(envsource.NewSource(), tokenStore)
	if err != nil {
		return nil, fmt.Errorf("wire credential chain: %w", err)
	}

	client := &api.Client{
		BaseURL:        envOrDefault("LINGODECK_API_URL", "https://api.lingodeck.app"),
		HTTPClient:     http.DefaultClient,
		RequestTimeout: 30 * time.Second,
	}

	metrics := jsonl.NewSink(envOrDefault("LINGODECK_METRICS_PATH", filepath.Join(dataDir, "metrics.jsonl")))

	syncService := application.NewSyncService(records, tombstones, client, credentials, metrics, ports.SystemClock{})

	cacheDir := envOrDefault("LINGODECK_CACHE_DIR", filepath.Join(dataDir, "cache"))
	cacheService := application.NewCacheService(index, &download.Downloader{HTTPClient: http.DefaultClient}, ports.SystemClock{}, cacheDir)

	return &app{
		sync:         syncService,
		cache:        cacheService,
		tokenStore:   tokenStore,
		recordsPath:  filepath.Join(dataDir, "records.toml"),
		statusRender: statusadapter.Render,
		now:          time.Now,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
