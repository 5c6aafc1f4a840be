package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/qluke/genshin-builds/internal/materials"
)

const (
	DefaultConfigPath = "genshin_builds.yaml"
	DefaultEnvPath    = ".env"

	EnvDBPath   = "GENSHIN_BUILDS_DB_PATH"
	EnvDataDir  = "GENSHIN_BUILDS_DATA_DIR"
	EnvAddr     = "GENSHIN_BUILDS_ADDR"
	EnvLogLevel = "GENSHIN_BUILDS_LOG_LEVEL"
	EnvDiscord  = "GENSHIN_BUILDS_DISCORD_WEBHOOK"
)

type Config struct {
	DBPath    string
	DataDir   string
	Addr      string
	Lang      string
	LogLevel  string
	LogFormat string
	OutDir    string

	// DiscordWebhook, when set, receives a summary of each export.
	DiscordWebhook string

	// Per-command inputs.
	UID       string
	Character string
	InPath    string
	Range     materials.Range
}

func Defaults() Config {
	return Config{
		DBPath:    "./data/genshin_builds.db",
		DataDir:   "./data/genshin",
		Addr:      ":8080",
		Lang:      "en",
		LogLevel:  "info",
		LogFormat: "json",
		OutDir:    "output",
		Range:     materials.DefaultRange(),
	}
}

var uidRe = regexp.MustCompile(`^\d{9,10}$`)

// ValidateUID checks the shape of a game uid.
func ValidateUID(uid string) error {
	if strings.TrimSpace(uid) == "" {
		return errors.New("missing uid (provide -uid)")
	}
	if !uidRe.MatchString(uid) {
		return fmt.Errorf("invalid uid %q (expected 9 or 10 digits, e.g. 712345678)", uid)
	}
	return nil
}

type stringOpt struct {
	v   string
	set bool
}

func (o *stringOpt) String() string { return o.v }
func (o *stringOpt) Set(v string) error {
	o.v = v
	o.set = true
	return nil
}

type intOpt struct {
	v   int
	set bool
}

func (o *intOpt) String() string { return strconv.Itoa(o.v) }
func (o *intOpt) Set(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	o.v = n
	o.set = true
	return nil
}

type FileConfig struct {
	DBPath    string     `yaml:"dbPath"`
	DataDir   string     `yaml:"dataDir"`
	Addr      string     `yaml:"addr"`
	Lang      string     `yaml:"lang"`
	LogLevel  string     `yaml:"logLevel"`
	LogFormat string     `yaml:"logFormat"`
	OutDir    string     `yaml:"outDir"`
	Discord   string     `yaml:"discordWebhook"`
	Materials *FileRange `yaml:"materials"`
}

type FileRange struct {
	AscensionMin *int `yaml:"ascensionMin"`
	AscensionMax *int `yaml:"ascensionMax"`
	TalentMin    *int `yaml:"talentMin"`
	TalentMax    *int `yaml:"talentMax"`
}

// Load resolves configuration in order: defaults, YAML file, .env and
// process environment, then flags that were explicitly set. Positional
// arguments left after the flags are returned.
func Load(name string, args []string) (Config, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // errors are returned, not printed

	var configPath, envPath stringOpt
	var dbOpt, dataOpt, addrOpt, langOpt, levelOpt, formatOpt, outOpt stringOpt
	var uidOpt, charOpt, inOpt, discordOpt stringOpt
	var ascMinOpt, ascMaxOpt, talMinOpt, talMaxOpt intOpt

	fs.Var(&configPath, "config", "path to config yaml (default: "+DefaultConfigPath+")")
	fs.Var(&envPath, "env", "path to .env file (default: "+DefaultEnvPath+")")
	fs.Var(&dbOpt, "db", "sqlite database path")
	fs.Var(&dataOpt, "data-dir", "catalog data directory")
	fs.Var(&addrOpt, "addr", "http listen address")
	fs.Var(&langOpt, "lang", "catalog language")
	fs.Var(&levelOpt, "log-level", "log level (debug, info, warn, error)")
	fs.Var(&formatOpt, "log-format", "log format (json, console)")
	fs.Var(&outOpt, "out-dir", "output directory for exports")
	fs.Var(&discordOpt, "discord-webhook", "discord webhook url for export summaries")
	fs.Var(&uidOpt, "uid", "player uid")
	fs.Var(&charOpt, "character", "character id, e.g. fischl")
	fs.Var(&inOpt, "in", "input json path for import")
	fs.Var(&ascMinOpt, "asc-min", "first ascension phase")
	fs.Var(&ascMaxOpt, "asc-max", "last ascension phase")
	fs.Var(&talMinOpt, "talent-min", "starting talent level")
	fs.Var(&talMaxOpt, "talent-max", "target talent level")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	cfg := Defaults()

	path := strings.TrimSpace(configPath.v)
	if path == "" {
		path = DefaultConfigPath
	}
	fc, err := loadFileConfig(path, configPath.set)
	if err != nil {
		return Config{}, nil, err
	}
	applyFile(&cfg, fc)

	envFile := strings.TrimSpace(envPath.v)
	if envFile == "" {
		envFile = DefaultEnvPath
	}
	if err := loadDotEnv(envFile, envPath.set); err != nil {
		return Config{}, nil, err
	}
	applyEnv(&cfg)

	for _, o := range []struct {
		opt *stringOpt
		dst *string
	}{
		{&dbOpt, &cfg.DBPath},
		{&dataOpt, &cfg.DataDir},
		{&addrOpt, &cfg.Addr},
		{&langOpt, &cfg.Lang},
		{&levelOpt, &cfg.LogLevel},
		{&formatOpt, &cfg.LogFormat},
		{&outOpt, &cfg.OutDir},
		{&discordOpt, &cfg.DiscordWebhook},
		{&uidOpt, &cfg.UID},
		{&charOpt, &cfg.Character},
		{&inOpt, &cfg.InPath},
	} {
		if o.opt.set {
			*o.dst = strings.TrimSpace(o.opt.v)
		}
	}
	for _, o := range []struct {
		opt *intOpt
		dst *int
	}{
		{&ascMinOpt, &cfg.Range.AscensionMin},
		{&ascMaxOpt, &cfg.Range.AscensionMax},
		{&talMinOpt, &cfg.Range.TalentMin},
		{&talMaxOpt, &cfg.Range.TalentMax},
	} {
		if o.opt.set {
			*o.dst = o.opt.v
		}
	}

	if cfg.DBPath == "" {
		return Config{}, nil, errors.New("missing db path")
	}
	if cfg.DataDir == "" {
		return Config{}, nil, errors.New("missing data dir")
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if err := cfg.Range.Validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

func applyFile(cfg *Config, fc FileConfig) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&cfg.DBPath, fc.DBPath)
	set(&cfg.DataDir, fc.DataDir)
	set(&cfg.Addr, fc.Addr)
	set(&cfg.Lang, fc.Lang)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
	set(&cfg.OutDir, fc.OutDir)
	set(&cfg.DiscordWebhook, fc.Discord)

	if fc.Materials == nil {
		return
	}
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setInt(&cfg.Range.AscensionMin, fc.Materials.AscensionMin)
	setInt(&cfg.Range.AscensionMax, fc.Materials.AscensionMax)
	setInt(&cfg.Range.TalentMin, fc.Materials.TalentMin)
	setInt(&cfg.Range.TalentMax, fc.Materials.TalentMax)
}

func applyEnv(cfg *Config) {
	for _, e := range []struct {
		key string
		dst *string
	}{
		{EnvDBPath, &cfg.DBPath},
		{EnvDataDir, &cfg.DataDir},
		{EnvAddr, &cfg.Addr},
		{EnvLogLevel, &cfg.LogLevel},
		{EnvDiscord, &cfg.DiscordWebhook},
	} {
		if v := strings.TrimSpace(os.Getenv(e.key)); v != "" {
			*e.dst = v
		}
	}
}

// loadDotEnv populates unset environment variables from path. A missing file
// is only an error when the path was given explicitly.
func loadDotEnv(path string, explicit bool) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func loadFileConfig(path string, explicit bool) (FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("read config yaml %s: %w", path, err)
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("parse config yaml %s: %w", path, err)
	}
	return fc, nil
}
