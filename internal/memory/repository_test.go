package memory

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testItemColumns = []string{
	"id", "content", "category_id", "difficulty", "retention_rate", "review_count", "created_at", "last_reviewed_at", "next_review_at",
}

var testIntervalColumns = []string{
	"item_id", "seq", "interval_minutes", "rung", "scheduled_time", "actual_time", "success", "retention_before", "retention_after",
}

func newMockRepository(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDBRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestDBRepository_FindAll(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	reviewed := created.Add(20 * time.Minute)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []Item
		wantErr   bool
	}{
		{
			name: "joins interval history to items",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM memory_items ORDER BY id").WillReturnRows(
					sqlmock.NewRows(testItemColumns).
						AddRow(1, "hola", "spanish", "easy", 100.0, 1, created, reviewed, reviewed.Add(66*time.Minute)).
						AddRow(2, "adios", "", "hard", 100.0, 0, created, nil, created.Add(20*time.Minute)),
				)
				mock.ExpectQuery("SELECT .+ FROM review_intervals ORDER BY item_id, seq").WillReturnRows(
					sqlmock.NewRows(testIntervalColumns).
						AddRow(1, 0, 20, 0, created.Add(20*time.Minute), reviewed, true, 48.1, 100.0),
				)
			},
			want: []Item{
				{
					ID: 1, Content: "hola", CategoryID: "spanish", Difficulty: DifficultyEasy,
					RetentionRate: 100, ReviewCount: 1, CreatedAt: created,
					LastReviewedAt: &reviewed, NextReviewAt: reviewed.Add(66 * time.Minute),
					Intervals: []ReviewInterval{
						{Interval: 20, Rung: 0, ScheduledTime: created.Add(20 * time.Minute), ActualTime: &reviewed, Success: true, RetentionBefore: 48.1, RetentionAfter: 100},
					},
				},
				{
					ID: 2, Content: "adios", Difficulty: DifficultyHard,
					RetentionRate: 100, CreatedAt: created, NextReviewAt: created.Add(20 * time.Minute),
					Intervals: []ReviewInterval{},
				},
			},
		},
		{
			name: "item query error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM memory_items").WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
		{
			name: "interval query error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM memory_items").WillReturnRows(sqlmock.NewRows(testItemColumns))
				mock.ExpectQuery("SELECT .+ FROM review_intervals").WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			got, err := repo.FindAll(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindByID(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT .+ FROM memory_items WHERE id = \\?").WithArgs(7).WillReturnRows(
			sqlmock.NewRows(testItemColumns).AddRow(7, "bonjour", "french", "medium", 100.0, 0, created, nil, created.Add(20*time.Minute)),
		)
		mock.ExpectQuery("SELECT .+ FROM review_intervals WHERE item_id = \\? ORDER BY seq").WithArgs(7).WillReturnRows(
			sqlmock.NewRows(testIntervalColumns).AddRow(7, 0, 20, 0, created.Add(20*time.Minute), nil, false, 41.6, 100.0),
		)

		got, err := repo.FindByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "bonjour", got.Content)
		assert.Nil(t, got.LastReviewedAt)
		require.Len(t, got.Intervals, 1)
		assert.False(t, got.Intervals[0].Attempted())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT .+ FROM memory_items WHERE id = \\?").WithArgs(8).WillReturnRows(sqlmock.NewRows(testItemColumns))

		_, err := repo.FindByID(context.Background(), 8)
		assert.ErrorIs(t, err, ErrItemNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBRepository_Save(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	reviewed := created.Add(20 * time.Minute)
	item := Item{
		ID: 1, Content: "hola", CategoryID: "spanish", Difficulty: DifficultyEasy,
		RetentionRate: 100, ReviewCount: 1, CreatedAt: created,
		LastReviewedAt: &reviewed, NextReviewAt: reviewed.Add(66 * time.Minute),
		Intervals: []ReviewInterval{
			{Interval: 20, Rung: -1, ScheduledTime: created.Add(20 * time.Minute)},
			{Interval: 20, Rung: 0, ScheduledTime: created.Add(20 * time.Minute), ActualTime: &reviewed, Success: true, RetentionBefore: 48.1, RetentionAfter: 100},
		},
	}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
		wantErrIs error
	}{
		{
			name: "inserts a new item with its history",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM memory_items WHERE id = ?")).WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM review_intervals WHERE item_id = ?")).WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectExec("INSERT INTO memory_items").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec("INSERT INTO review_intervals").WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectCommit()
			},
		},
		{
			name: "updates an existing item and appends only new entries",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM memory_items WHERE id = ?")).WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM review_intervals WHERE item_id = ?")).WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("UPDATE memory_items SET").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO review_intervals (item_id, seq, interval_minutes, rung, scheduled_time, actual_time, success, retention_before, retention_after) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")).
					WithArgs(1, 1, 20, 0, sqlmock.AnyArg(), sqlmock.AnyArg(), true, 48.1, 100.0).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "skips interval insert when history is stored",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM memory_items")).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM review_intervals")).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
				mock.ExpectExec("UPDATE memory_items SET").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "rejects a copy with less history than stored",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM memory_items")).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM review_intervals")).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
				mock.ExpectRollback()
			},
			wantErrIs: ErrStaleItem,
		},
		{
			name: "rolls back when the interval insert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM memory_items")).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM review_intervals")).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectExec("INSERT INTO memory_items").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec("INSERT INTO review_intervals").WillReturnError(fmt.Errorf("deadlock"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			err := repo.Save(context.Background(), item)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			} else if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Delete(t *testing.T) {
	tests := []struct {
		name      string
		affected  int64
		wantErrIs error
	}{
		{name: "deletes item", affected: 1},
		{name: "missing item", affected: 0, wantErrIs: ErrItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM review_intervals WHERE item_id = ?")).WithArgs(3).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM memory_items WHERE id = ?")).WithArgs(3).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			if tt.wantErrIs != nil {
				mock.ExpectRollback()
			} else {
				mock.ExpectCommit()
			}

			err := repo.Delete(context.Background(), 3)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Categories(t *testing.T) {
	t.Run("find", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT id, name, color, item_count, average_retention FROM categories ORDER BY id").WillReturnRows(
			sqlmock.NewRows([]string{"id", "name", "color", "item_count", "average_retention"}).
				AddRow("french", "French", "#0055a4", 3, 72.5),
		)

		got, err := repo.FindCategories(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []Category{{ID: "french", Name: "French", Color: "#0055a4", ItemCount: 3, AverageRetention: 72.5}}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save inserts new category", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories WHERE id = ?")).WithArgs("french").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec("INSERT INTO categories").WithArgs("french", "French", "", 0, 0.0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveCategory(context.Background(), Category{ID: "french", Name: "French"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save updates existing category", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec("UPDATE categories SET").WithArgs("French", "#0055a4", 2, 55.0, "french").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveCategory(context.Background(), Category{ID: "french", Name: "French", Color: "#0055a4", ItemCount: 2, AverageRetention: 55})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
