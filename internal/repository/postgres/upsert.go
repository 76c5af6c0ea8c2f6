package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// upsertByUserID inserts a row keyed by user_id or updates only the given
// columns of the existing row. Columns outside writable are rejected.
func upsertByUserID(ctx context.Context, db *sqlx.DB, table string, writable map[string]struct{}, userID uuid.UUID, fields repository.Fields) error {
	columns := make([]string, 0, len(fields))
	for col := range fields {
		if _, ok := writable[col]; !ok {
			return fmt.Errorf("upsert %s: column %q is not writable", table, col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	args := make([]interface{}, 0, len(columns)+1)
	args = append(args, userID)
	placeholders := []string{"$1"}
	updates := make([]string, 0, len(columns)+1)
	for i, col := range columns {
		args = append(args, columnValue(fields[col]))
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	conflict := "DO NOTHING"
	if len(updates) > 0 {
		updates = append(updates, "updated_at = CURRENT_TIMESTAMP")
		conflict = "DO UPDATE SET " + strings.Join(updates, ", ")
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (user_id%s) VALUES (%s) ON CONFLICT (user_id) %s",
		table, prefixed(columns), strings.Join(placeholders, ", "), conflict,
	)

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func prefixed(columns []string) string {
	if len(columns) == 0 {
		return ""
	}
	return ", " + strings.Join(columns, ", ")
}

func columnValue(v interface{}) interface{} {
	switch x := v.(type) {
	case []string:
		return pq.Array(x)
	default:
		return v
	}
}
