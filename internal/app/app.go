package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/qluke/genshin-builds/internal/catalog"
	"github.com/qluke/genshin-builds/internal/config"
	"github.com/qluke/genshin-builds/internal/domain"
	"github.com/qluke/genshin-builds/internal/materials"
	"github.com/qluke/genshin-builds/internal/notify"
	"github.com/qluke/genshin-builds/internal/output"
	"github.com/qluke/genshin-builds/internal/profile"
	"github.com/qluke/genshin-builds/internal/store"
)

const Usage = `usage: profile_builds <command> [flags] [args]

commands:
  import     load a player and raw builds from a JSON file (-in or first arg)
  export     decode a player's builds (-uid) to XLSX and JSON under -out-dir
  materials  print and export material totals for -character`

// ImportFile is the JSON document accepted by the import command.
type ImportFile struct {
	Player domain.Player           `json:"player"`
	Builds []domain.RawBuildRecord `json:"builds"`
}

// Run executes one CLI command. Usage problems are returned as ExitError
// with ExitUsage.
func Run(ctx context.Context, cfg config.Config, command string, args []string, log *zap.Logger, stdout io.Writer) error {
	if log == nil {
		log = zap.NewNop()
	}
	switch command {
	case "import":
		in := cfg.InPath
		if in == "" && len(args) > 0 {
			in = args[0]
		}
		if in == "" {
			return usageError(errors.New("import: missing input file (provide -in or a path argument)"))
		}
		return runImport(ctx, cfg, in, stdout)
	case "export":
		if err := config.ValidateUID(cfg.UID); err != nil {
			return usageError(fmt.Errorf("export: %w", err))
		}
		return runExport(ctx, cfg, log, stdout)
	case "materials":
		if strings.TrimSpace(cfg.Character) == "" {
			return usageError(errors.New("materials: missing character (provide -character)"))
		}
		return runMaterials(cfg, log, stdout)
	case "":
		return usageError(errors.New(Usage))
	default:
		return usageError(fmt.Errorf("unknown command %q\n%s", command, Usage))
	}
}

func openRepo(ctx context.Context, cfg config.Config) (*store.Repo, func(), error) {
	db, err := store.Open(store.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store.NewRepo(db), func() { _ = db.Close() }, nil
}

func runImport(ctx context.Context, cfg config.Config, in string, stdout io.Writer) error {
	b, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var doc ImportFile
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse import file %s: %w", in, err)
	}
	doc.Player.UUID = strings.TrimSpace(doc.Player.UUID)
	if err := config.ValidateUID(doc.Player.UUID); err != nil {
		return fmt.Errorf("import %s: %w", in, err)
	}

	repo, closeDB, err := openRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.UpsertPlayer(ctx, &doc.Player); err != nil {
		return err
	}
	if err := repo.ReplaceBuilds(ctx, doc.Player.ID, doc.Builds); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Imported %d build(s) for %s (%s)\n", len(doc.Builds), doc.Player.UUID, profile.RegionFromUID(doc.Player.UUID))
	return nil
}

func runExport(ctx context.Context, cfg config.Config, log *zap.Logger, stdout io.Writer) error {
	repo, closeDB, err := openRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	svc := profile.NewService(repo, catalog.NewCache(cfg.DataDir), log)
	p, err := svc.GetProfile(ctx, cfg.UID, cfg.Lang)
	if err != nil {
		return err
	}

	dropped, faults := 0, 0
	for _, b := range p.Builds {
		if b == nil {
			dropped++
			continue
		}
		faults += len(b.Faults)
	}
	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "WARN: %d build(s) skipped (unknown character)\n", dropped)
	}
	if faults > 0 {
		fmt.Fprintf(os.Stderr, "WARN: %d field(s) not fully decoded\n", faults)
	}

	base := safeFilename(p.Nickname)
	if base == "" {
		base = p.UUID
	}
	stem := filepath.Join(cfg.OutDir, fmt.Sprintf("%s_%s", time.Now().Format("20060102"), base))

	if err := output.ExportBuildsXLSX(stem+".xlsx", p.Builds); err != nil {
		return err
	}
	if err := output.WriteJSONFile(stem+".json", p); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Wrote %d build(s) to %s.xlsx and %s.json\n", len(p.Builds)-dropped, stem, stem)

	if cfg.DiscordWebhook != "" {
		if err := announce(cfg.DiscordWebhook, p); err != nil {
			fmt.Fprintf(os.Stderr, "WARN: %v\n", err)
		}
	}
	return nil
}

func announce(webhookURL string, p *domain.Profile) error {
	d, err := notify.NewDiscord(webhookURL)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.AnnounceExport(p)
}

func runMaterials(cfg config.Config, log *zap.Logger, stdout io.Writer) error {
	svc := profile.NewService(nil, catalog.NewCache(cfg.DataDir), log)
	totals, err := svc.Materials(cfg.Lang, cfg.Character, cfg.Range)
	if err != nil {
		if errors.Is(err, materials.ErrInvalidRange) {
			return usageError(err)
		}
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, sec := range []struct {
		label string
		res   domain.AggregateResult
	}{
		{"Ascension", totals.Ascension},
		{"Talents", totals.Talents},
	} {
		fmt.Fprintf(tw, "%s\tcost %d\n", sec.label, sec.res.Cost)
		for _, m := range sec.res.Items {
			fmt.Fprintf(tw, "  %s\t%d\t%s\n", m.Name, m.Amount, m.Type)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	path := filepath.Join(cfg.OutDir, fmt.Sprintf("materials_%s.xlsx", safeFilename(cfg.Character)))
	if err := output.ExportMaterialsXLSX(path, cfg.Character, totals); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}
