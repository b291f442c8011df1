package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/recallr/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/memory/mock_repository.go -package=mock_memory

// Repository persists items with their interval history and categories.
type Repository interface {
	FindAll(ctx context.Context) ([]Item, error)
	FindByID(ctx context.Context, id int64) (Item, error)
	Save(ctx context.Context, item Item) error
	Delete(ctx context.Context, id int64) error
	FindCategories(ctx context.Context) ([]Category, error)
	SaveCategory(ctx context.Context, category Category) error
}

type itemRow struct {
	ID             int64        `db:"id"`
	Content        string       `db:"content"`
	CategoryID     string       `db:"category_id"`
	Difficulty     string       `db:"difficulty"`
	RetentionRate  float64      `db:"retention_rate"`
	ReviewCount    int          `db:"review_count"`
	CreatedAt      sql.NullTime `db:"created_at"`
	LastReviewedAt sql.NullTime `db:"last_reviewed_at"`
	NextReviewAt   sql.NullTime `db:"next_review_at"`
}

type intervalRow struct {
	ItemID          int64        `db:"item_id"`
	Seq             int          `db:"seq"`
	IntervalMinutes int          `db:"interval_minutes"`
	Rung            int          `db:"rung"`
	ScheduledTime   sql.NullTime `db:"scheduled_time"`
	ActualTime      sql.NullTime `db:"actual_time"`
	Success         bool         `db:"success"`
	RetentionBefore float64      `db:"retention_before"`
	RetentionAfter  float64      `db:"retention_after"`
}

const itemColumns = "id, content, category_id, difficulty, retention_rate, review_count, created_at, last_reviewed_at, next_review_at"

var intervalColumns = []string{
	"item_id", "seq", "interval_minutes", "rung", "scheduled_time", "actual_time", "success", "retention_before", "retention_after",
}

func (r itemRow) toItem() Item {
	item := Item{
		ID:            r.ID,
		Content:       r.Content,
		CategoryID:    r.CategoryID,
		Difficulty:    Difficulty(r.Difficulty),
		RetentionRate: r.RetentionRate,
		ReviewCount:   r.ReviewCount,
		CreatedAt:     r.CreatedAt.Time,
		NextReviewAt:  r.NextReviewAt.Time,
		Intervals:     []ReviewInterval{},
	}
	if r.LastReviewedAt.Valid {
		t := r.LastReviewedAt.Time
		item.LastReviewedAt = &t
	}
	return item
}

func (r intervalRow) toInterval() ReviewInterval {
	ri := ReviewInterval{
		Interval:        r.IntervalMinutes,
		Rung:            r.Rung,
		ScheduledTime:   r.ScheduledTime.Time,
		Success:         r.Success,
		RetentionBefore: r.RetentionBefore,
		RetentionAfter:  r.RetentionAfter,
	}
	if r.ActualTime.Valid {
		t := r.ActualTime.Time
		ri.ActualTime = &t
	}
	return ri
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// DBRepository implements Repository on a SQL database.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindAll returns every item ordered by ID, each with its full interval history.
func (r *DBRepository) FindAll(ctx context.Context) ([]Item, error) {
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+itemColumns+" FROM memory_items ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load all memory items: %w", err)
	}
	var intervals []intervalRow
	query := "SELECT " + strings.Join(intervalColumns, ", ") + " FROM review_intervals ORDER BY item_id, seq"
	if err := r.db.SelectContext(ctx, &intervals, query); err != nil {
		return nil, fmt.Errorf("load all review intervals: %w", err)
	}

	byItem := make(map[int64][]ReviewInterval, len(rows))
	for _, row := range intervals {
		byItem[row.ItemID] = append(byItem[row.ItemID], row.toInterval())
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item := row.toItem()
		if history, ok := byItem[row.ID]; ok {
			item.Intervals = history
		}
		items = append(items, item)
	}
	return items, nil
}

// FindByID returns the item with id, or ErrItemNotFound.
func (r *DBRepository) FindByID(ctx context.Context, id int64) (Item, error) {
	var row itemRow
	query := r.db.Rebind("SELECT " + itemColumns + " FROM memory_items WHERE id = ?")
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, fmt.Errorf("find item %d: %w", id, ErrItemNotFound)
		}
		return Item{}, fmt.Errorf("find item %d: %w", id, err)
	}

	var intervals []intervalRow
	query = r.db.Rebind("SELECT " + strings.Join(intervalColumns, ", ") + " FROM review_intervals WHERE item_id = ? ORDER BY seq")
	if err := r.db.SelectContext(ctx, &intervals, query, id); err != nil {
		return Item{}, fmt.Errorf("load review intervals of item %d: %w", id, err)
	}
	item := row.toItem()
	for _, ir := range intervals {
		item.Intervals = append(item.Intervals, ir.toInterval())
	}
	return item, nil
}

// Save writes the item and appends interval entries not stored yet.
// History is append-only, so rows are keyed by their position and a copy
// with fewer entries than stored is rejected with ErrStaleItem.
func (r *DBRepository) Save(ctx context.Context, item Item) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, tx.Rebind("SELECT COUNT(*) FROM memory_items WHERE id = ?"), item.ID); err != nil {
			return fmt.Errorf("check item %d: %w", item.ID, err)
		}

		var stored int
		if err := tx.GetContext(ctx, &stored, tx.Rebind("SELECT COUNT(*) FROM review_intervals WHERE item_id = ?"), item.ID); err != nil {
			return fmt.Errorf("count review intervals of item %d: %w", item.ID, err)
		}
		if stored > len(item.Intervals) {
			return fmt.Errorf("save item %d with %d intervals over %d stored: %w", item.ID, len(item.Intervals), stored, ErrStaleItem)
		}

		args := []interface{}{
			item.Content, item.CategoryID, string(item.Difficulty), item.RetentionRate, item.ReviewCount,
			item.CreatedAt, nullTime(item.LastReviewedAt), item.NextReviewAt, item.ID,
		}
		if exists == 0 {
			query := tx.Rebind("INSERT INTO memory_items (content, category_id, difficulty, retention_rate, review_count, created_at, last_reviewed_at, next_review_at, id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert item %d: %w", item.ID, err)
			}
		} else {
			query := tx.Rebind("UPDATE memory_items SET content = ?, category_id = ?, difficulty = ?, retention_rate = ?, review_count = ?, created_at = ?, last_reviewed_at = ?, next_review_at = ? WHERE id = ?")
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("update item %d: %w", item.ID, err)
			}
		}

		pending := item.Intervals[stored:]
		if len(pending) == 0 {
			return nil
		}

		query := tx.Rebind(database.BuildMultiRowInsert("review_intervals", intervalColumns, len(pending)))
		var intervalArgs []interface{}
		for i, ri := range pending {
			intervalArgs = append(intervalArgs,
				item.ID, stored+i, ri.Interval, ri.Rung, ri.ScheduledTime, nullTime(ri.ActualTime),
				ri.Success, ri.RetentionBefore, ri.RetentionAfter,
			)
		}
		if _, err := tx.ExecContext(ctx, query, intervalArgs...); err != nil {
			return fmt.Errorf("insert review intervals of item %d: %w", item.ID, err)
		}
		return nil
	})
}

// Delete removes the item and its history, or returns ErrItemNotFound.
func (r *DBRepository) Delete(ctx context.Context, id int64) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM review_intervals WHERE item_id = ?"), id); err != nil {
			return fmt.Errorf("delete review intervals of item %d: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM memory_items WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("delete item %d: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("result.RowsAffected() > %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("delete item %d: %w", id, ErrItemNotFound)
		}
		return nil
	})
}

// FindCategories returns all categories ordered by ID.
func (r *DBRepository) FindCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.SelectContext(ctx, &categories, "SELECT id, name, color, item_count, average_retention FROM categories ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load all categories: %w", err)
	}
	return categories, nil
}

// SaveCategory inserts or updates a category.
func (r *DBRepository) SaveCategory(ctx context.Context, category Category) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, tx.Rebind("SELECT COUNT(*) FROM categories WHERE id = ?"), category.ID); err != nil {
			return fmt.Errorf("check category %s: %w", category.ID, err)
		}
		query := "UPDATE categories SET name = :name, color = :color, item_count = :item_count, average_retention = :average_retention WHERE id = :id"
		if exists == 0 {
			query = "INSERT INTO categories (id, name, color, item_count, average_retention) VALUES (:id, :name, :color, :item_count, :average_retention)"
		}
		if _, err := tx.NamedExecContext(ctx, query, category); err != nil {
			return fmt.Errorf("save category %s: %w", category.ID, err)
		}
		return nil
	})
}
