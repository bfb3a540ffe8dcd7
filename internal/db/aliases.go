package db

import (
	"context"
	"fmt"
)

// Alias is a canned reply registered per guild: typing "!name" in chat
// makes the bot answer with the stored response.
type Alias struct {
	GuildID  int64  `json:"guild_id"`
	Name     string `json:"name"`
	Response string `json:"response"`
}

func (db *DB) GetAlias(ctx context.Context, guildID int64, name string) (*Alias, error) {
	var a Alias
	err := db.pool.QueryRow(ctx,
		"SELECT guild_id, name, response FROM aliases WHERE guild_id = $1 AND name = $2",
		guildID, name,
	).Scan(&a.GuildID, &a.Name, &a.Response)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) AddAlias(ctx context.Context, guildID int64, name, response string) error {
	_, err := db.pool.Exec(ctx,
		"INSERT INTO aliases (guild_id, name, response) VALUES ($1, $2, $3) ON CONFLICT (guild_id, name) DO NOTHING",
		guildID, name, response,
	)
	return err
}

func (db *DB) UpdateAlias(ctx context.Context, guildID int64, name, response string) error {
	result, err := db.pool.Exec(ctx,
		"UPDATE aliases SET response = $3 WHERE guild_id = $1 AND name = $2",
		guildID, name, response,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("alias not found")
	}
	return nil
}

func (db *DB) RemoveAlias(ctx context.Context, guildID int64, name string) error {
	result, err := db.pool.Exec(ctx,
		"DELETE FROM aliases WHERE guild_id = $1 AND name = $2",
		guildID, name,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("alias not found")
	}
	return nil
}

func (db *DB) ListAliases(ctx context.Context, guildID int64, pattern string) ([]Alias, error) {
	query := "SELECT guild_id, name, response FROM aliases WHERE guild_id = $1 ORDER BY name"
	args := []any{guildID}
	if pattern != "" {
		query = "SELECT guild_id, name, response FROM aliases WHERE guild_id = $1 AND (name ILIKE $2 OR response ILIKE $2) ORDER BY name"
		args = append(args, "%"+pattern+"%")
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aliases []Alias
	for rows.Next() {
		var a Alias
		if err := rows.Scan(&a.GuildID, &a.Name, &a.Response); err != nil {
			return nil, err
		}
		aliases = append(aliases, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return aliases, nil
}

func (db *DB) GetRegisteredGuildIDs(ctx context.Context) ([]int64, error) {
	rows, err := db.pool.Query(ctx, "SELECT DISTINCT guild_id FROM aliases")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guildIDs []int64
	for rows.Next() {
		var guildID int64
		if err := rows.Scan(&guildID); err != nil {
			return nil, err
		}
		guildIDs = append(guildIDs, guildID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return guildIDs, nil
}
