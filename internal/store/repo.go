package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qluke/genshin-builds/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const playerColumns = `id, uuid, nickname, level, signature, world_level, finish_achievement_num,
	profile_picture_id, profile_costume_id, namecard_id, updated_at`

// GetPlayer returns nil, nil when no player has the given game uid.
func (r *Repo) GetPlayer(ctx context.Context, uid string) (*domain.Player, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE uuid = ?`, uid)

	var p domain.Player
	if err := row.Scan(
		&p.ID, &p.UUID, &p.Nickname, &p.Level, &p.Signature, &p.WorldLevel, &p.FinishAchievementNum,
		&p.ProfilePictureID, &p.ProfileCostumeID, &p.NamecardID, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan player: %w", err)
	}
	return &p, nil
}

// UpsertPlayer inserts or updates a player keyed by game uid. New players get
// a random id; p.ID and p.UpdatedAt are set on return.
func (r *Repo) UpsertPlayer(ctx context.Context, p *domain.Player) error {
	if strings.TrimSpace(p.UUID) == "" {
		return errors.New("upsert player: missing uuid")
	}
	existing, err := r.GetPlayer(ctx, p.UUID)
	if err != nil {
		return err
	}
	if existing != nil {
		p.ID = existing.ID
	} else if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UpdatedAt = time.Now().UTC()

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET
			nickname = excluded.nickname,
			level = excluded.level,
			signature = excluded.signature,
			world_level = excluded.world_level,
			finish_achievement_num = excluded.finish_achievement_num,
			profile_picture_id = excluded.profile_picture_id,
			profile_costume_id = excluded.profile_costume_id,
			namecard_id = excluded.namecard_id,
			updated_at = excluded.updated_at
	`,
		p.ID, p.UUID, p.Nickname, p.Level, p.Signature, p.WorldLevel, p.FinishAchievementNum,
		p.ProfilePictureID, p.ProfileCostumeID, p.NamecardID, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", p.UUID, err)
	}
	return nil
}

const buildColumns = `id, player_id, avatar_id, level, ascension, constellation, fetter_level, fight_props,
	flower_id, flower_main_stat, flower_sub_stats, flower_substats_id,
	plume_id, plume_main_stat, plume_sub_stats, plume_substats_id,
	sands_id, sands_main_stat, sands_sub_stats, sands_substats_id,
	goblet_id, goblet_main_stat, goblet_sub_stats, goblet_substats_id,
	circlet_id, circlet_main_stat, circlet_sub_stats, circlet_substats_id,
	weapon_id, weapon_level, weapon_promote_level, weapon_refinement, weapon_stat`

// ListBuilds returns a player's stored builds in insertion order.
func (r *Repo) ListBuilds(ctx context.Context, playerID string) ([]domain.RawBuildRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE player_id = ? ORDER BY id ASC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list builds query: %w", err)
	}
	defer rows.Close()

	var out []domain.RawBuildRecord
	for rows.Next() {
		var b domain.RawBuildRecord
		if err := rows.Scan(
			&b.ID, &b.PlayerID, &b.AvatarID, &b.Level, &b.Ascension, &b.Constellation, &b.FetterLevel, &b.FightProps,
			&b.FlowerID, &b.FlowerMainStat, &b.FlowerSubStats, &b.FlowerSubstatsID,
			&b.PlumeID, &b.PlumeMainStat, &b.PlumeSubStats, &b.PlumeSubstatsID,
			&b.SandsID, &b.SandsMainStat, &b.SandsSubStats, &b.SandsSubstatsID,
			&b.GobletID, &b.GobletMainStat, &b.GobletSubStats, &b.GobletSubstatsID,
			&b.CircletID, &b.CircletMainStat, &b.CircletSubStats, &b.CircletSubstatsID,
			&b.WeaponID, &b.WeaponLevel, &b.WeaponPromoteLevel, &b.WeaponRefinement, &b.WeaponStat,
		); err != nil {
			return nil, fmt.Errorf("list builds scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// ReplaceBuilds swaps all of a player's builds for the given records in one
// transaction. Record ids are assigned by the database.
func (r *Repo) ReplaceBuilds(ctx context.Context, playerID string, records []domain.RawBuildRecord) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM builds WHERE player_id = ?`, playerID); err != nil {
		return fmt.Errorf("delete builds: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO builds (`+strings.TrimPrefix(buildColumns, "id, ")+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert build: %w", err)
	}
	defer stmt.Close()

	for i, b := range records {
		if _, err := stmt.ExecContext(ctx,
			playerID, b.AvatarID, b.Level, b.Ascension, b.Constellation, b.FetterLevel, b.FightProps,
			b.FlowerID, b.FlowerMainStat, b.FlowerSubStats, b.FlowerSubstatsID,
			b.PlumeID, b.PlumeMainStat, b.PlumeSubStats, b.PlumeSubstatsID,
			b.SandsID, b.SandsMainStat, b.SandsSubStats, b.SandsSubstatsID,
			b.GobletID, b.GobletMainStat, b.GobletSubStats, b.GobletSubstatsID,
			b.CircletID, b.CircletMainStat, b.CircletSubStats, b.CircletSubstatsID,
			b.WeaponID, b.WeaponLevel, b.WeaponPromoteLevel, b.WeaponRefinement, b.WeaponStat,
		); err != nil {
			return fmt.Errorf("insert build %d (avatar %d): %w", i, b.AvatarID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit builds: %w", err)
	}
	return nil
}
