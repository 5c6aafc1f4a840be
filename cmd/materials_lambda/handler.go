package main

import (
	"os"
	"strings"

	"github.com/qluke/genshin-builds/internal/api"
	"github.com/qluke/genshin-builds/internal/catalog"
	"github.com/qluke/genshin-builds/internal/config"
	"github.com/qluke/genshin-builds/internal/logging"
	"github.com/qluke/genshin-builds/internal/profile"
)

// newHandler builds the materials handler from the environment. The catalog
// for the default language is loaded eagerly so a cold start fails on a bad
// data dir.
func newHandler() (*api.Handler, error) {
	dataDir := strings.TrimSpace(os.Getenv(config.EnvDataDir))
	if dataDir == "" {
		dataDir = config.Defaults().DataDir
	}

	log, err := logging.New(os.Getenv(config.EnvLogLevel), "json")
	if err != nil {
		return nil, err
	}

	cache := catalog.NewCache(dataDir)
	if _, err := cache.Get(catalog.DefaultLang); err != nil {
		return nil, err
	}
	return api.NewHandler(profile.NewService(nil, cache, log), log), nil
}
