// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/curioquest/internal/generate"
	"github.com/pdiddy/curioquest/internal/library"
	"github.com/pdiddy/curioquest/internal/search"
	"github.com/pdiddy/curioquest/internal/secrets"
	"github.com/pdiddy/curioquest/pkg/types"
)

const defaultTimeout = 60 * time.Second

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	userAgent := "curioquest/" + version

	for _, section := range []string{"search", "extraction", "model"} {
		v.SetDefault(section+".timeout", defaultTimeout)
		v.SetDefault(section+".user_agent", userAgent)
		v.SetDefault(section+".max_retries", 0)
	}

	v.SetDefault("search.base_url", "")
	v.SetDefault("search.max_results", search.DefaultMaxResults)

	v.SetDefault("extraction.backend", string(types.ExtractorPlain))
	v.SetDefault("extraction.temp_dir", "")
	v.SetDefault("extraction.cache_dsn", library.DefaultDSN)
	v.SetDefault("extraction.cache_ttl", time.Duration(0))
	v.SetDefault("extraction.unipdf_license_key", "")

	v.SetDefault("model.backend", string(types.ModelHuggingFace))
	v.SetDefault("model.model", generate.DefaultHuggingFaceModel)
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.requests_per_minute", 0)
	v.SetDefault("model.workers", 1)
	v.SetDefault("model.queue_depth", 16)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cookie_name", "curioquest_session")
	v.SetDefault("server.max_upload_bytes", 64<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// loadConfig decodes viper settings into AppConfig and fills API keys
// from .secrets/ when the config leaves them empty.
func loadConfig(v *viper.Viper) (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	switch cfg.Model.Backend {
	case types.ModelClaude:
		cfg.Model.APIKey = secretDefault(secrets.AnthropicAPIKey, cfg.Model.APIKey)
	default:
		cfg.Model.APIKey = secretDefault(secrets.HuggingFaceAPIKey, cfg.Model.APIKey)
	}
	cfg.Extraction.UnipdfLicenseKey = secretDefault(secrets.UnipdfLicenseKey, cfg.Extraction.UnipdfLicenseKey)

	return cfg, nil
}
