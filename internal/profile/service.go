package profile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/qluke/genshin-builds/internal/builds"
	"github.com/qluke/genshin-builds/internal/catalog"
	"github.com/qluke/genshin-builds/internal/domain"
	"github.com/qluke/genshin-builds/internal/materials"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrCharacterNotFound = errors.New("character not found")
)

// Store is the persistence the service reads from.
type Store interface {
	GetPlayer(ctx context.Context, uid string) (*domain.Player, error)
	ListBuilds(ctx context.Context, playerID string) ([]domain.RawBuildRecord, error)
}

// Catalogs resolves reference data for a language.
type Catalogs interface {
	Get(lang string) (*catalog.Catalog, error)
}

type Service struct {
	store    Store
	catalogs Catalogs
	log      *zap.Logger
}

func NewService(store Store, catalogs Catalogs, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, catalogs: catalogs, log: log}
}

// RegionFromUID derives the server region from the first digit of a uid.
func RegionFromUID(uid string) string {
	if uid == "" {
		return "Unknown"
	}
	switch uid[0] {
	case '0':
		return "Internal"
	case '1', '2', '5':
		return "CH"
	case '6':
		return "NA"
	case '7':
		return "EU"
	case '8', '9':
		return "AS"
	default:
		return "Unknown"
	}
}

// GetProfile loads a player and decodes their stored builds. Builds whose
// character is unknown stay in the result as nil entries.
func (s *Service) GetProfile(ctx context.Context, uid, lang string) (*domain.Profile, error) {
	player, err := s.store.GetPlayer(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get player %s: %w", uid, err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	records, err := s.store.ListBuilds(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("list builds for %s: %w", uid, err)
	}

	cat, err := s.catalogs.Get(lang)
	if err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", lang, err)
	}

	decoded := builds.DecodeBuilds(records, cat)
	s.logDecode(uid, records, decoded)

	return &domain.Profile{
		Player: *player,
		Region: RegionFromUID(player.UUID),
		Builds: decoded,
	}, nil
}

func (s *Service) logDecode(uid string, records []domain.RawBuildRecord, decoded []*domain.DecodedBuild) {
	for i, b := range decoded {
		if b == nil {
			s.log.Warn("build dropped: unknown character",
				zap.String("uid", uid),
				zap.Int64("build_id", records[i].ID),
				zap.Int("avatar_id", records[i].AvatarID),
			)
			continue
		}
		for _, f := range b.Faults {
			s.log.Warn("build field not fully decoded",
				zap.String("uid", uid),
				zap.Int64("build_id", records[i].ID),
				zap.String("field", f.Field),
				zap.Error(f.Err),
			)
		}
	}
}

// Materials computes the material totals for a character by catalog id.
func (s *Service) Materials(lang, characterID string, r materials.Range) (materials.CharacterTotals, error) {
	if err := r.Validate(); err != nil {
		return materials.CharacterTotals{}, err
	}
	cat, err := s.catalogs.Get(lang)
	if err != nil {
		return materials.CharacterTotals{}, fmt.Errorf("load catalog %q: %w", lang, err)
	}
	ch, ok := cat.CharacterByID(characterID)
	if !ok {
		return materials.CharacterTotals{}, fmt.Errorf("%w: %s", ErrCharacterNotFound, characterID)
	}
	return materials.ForCharacter(ch, r), nil
}
