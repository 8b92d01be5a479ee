package gamemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating games and game_rounds tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS games (
					uuid UUID PRIMARY KEY,
					team1_name VARCHAR(100) NOT NULL,
					team2_name VARCHAR(100) NOT NULL,
					victory_threshold INTEGER NOT NULL DEFAULT 2000,
					seating JSONB,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create games table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS game_rounds (
					game_uuid UUID NOT NULL REFERENCES games(uuid) ON DELETE CASCADE,
					number INTEGER NOT NULL CHECK (number > 0),
					team1_contract VARCHAR(16) NOT NULL,
					team1_realized VARCHAR(16) NOT NULL,
					team1_announcement VARCHAR(32) NOT NULL,
					team1_remark VARCHAR(16) NOT NULL,
					team2_contract VARCHAR(16) NOT NULL,
					team2_realized VARCHAR(16) NOT NULL,
					team2_announcement VARCHAR(32) NOT NULL,
					team2_remark VARCHAR(16) NOT NULL,
					team1_points INTEGER NOT NULL,
					team2_points INTEGER NOT NULL,
					team1_total INTEGER NOT NULL,
					team2_total INTEGER NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (game_uuid, number)
				);
			`); err != nil {
				return fmt.Errorf("failed to create game_rounds table: %w", err)
			}

			fmt.Println("Game tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping game tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS game_rounds;`); err != nil {
				return fmt.Errorf("failed to drop game_rounds table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS games;`); err != nil {
				return fmt.Errorf("failed to drop games table: %w", err)
			}
			return nil
		})
	})
}
