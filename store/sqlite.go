// Package store は、データの永続化機能を提供します。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/stsysd/axisgraph/model"
)

// timestampLayout は固定長のUTC表記で、文字列比較が時刻順と一致します。
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// ActivityStore はアクティビティの保存と取得を行うインターフェースです。
type ActivityStore interface {
	// CreateActivity は新しいアクティビティを作成します。
	CreateActivity(ctx context.Context, activity *model.Activity) error
	// GetActivity は指定されたIDのアクティビティを取得します。
	GetActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error)
	// DeleteActivity は指定されたIDのアクティビティを削除します。
	DeleteActivity(ctx context.Context, id uuid.UUID) error
	// ListActivities は指定されたプロジェクトの、指定した期間内のアクティビティを取得します。
	ListActivities(ctx context.Context, params *ListActivitiesParams) ([]*model.Activity, error)
	// ListActivityTimes は指定期間内のアクティビティ日時を昇順に返すイテレータです。
	ListActivityTimes(ctx context.Context, project string, from, to time.Time) iter.Seq2[time.Time, error]
}

// ProjectStore はプロジェクトの保存と取得を行うインターフェースです。
type ProjectStore interface {
	// CreateProject は新しいプロジェクトを作成します。
	CreateProject(ctx context.Context, project *model.Project) error
	// GetProject は指定された名前のプロジェクトを取得します。
	GetProject(ctx context.Context, name string) (*model.Project, error)
	// ListProjects はすべてのプロジェクトを取得します。
	ListProjects(ctx context.Context) ([]*model.Project, error)
	// DeleteProject はプロジェクトとそのアクティビティを削除します。
	DeleteProject(ctx context.Context, name string) error
}

// Store はAPIサーバーが使用するストアのインターフェースです。
type Store interface {
	ActivityStore
	ProjectStore
	// Close はストアの接続を閉じます。
	Close() error
}

// ListActivitiesParams はアクティビティ一覧取得のパラメータです。
type ListActivitiesParams struct {
	Project string
	From    time.Time
	To      time.Time
	Limit   int
	Offset  int
}

// SQLiteStore はSQLiteを使用したStoreの実装です。
type SQLiteStore struct {
	conn *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore は新しいSQLiteStoreを作成します。
// migrate にはスキーマを適用する関数（通常は db.Migrate）を渡します。
func NewSQLiteStore(dataDir string, migrate func(*sql.DB) error) (*SQLiteStore, error) {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// SQLiteデータベースファイルのパス（外部キー制約は接続ごとに有効化）
	dbPath := filepath.Join(dataDir, "axisgraph.db")
	conn, err := sql.Open("sqlite3", "file:"+dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// CreateActivity は新しいアクティビティをデータベースに保存します。
func (s *SQLiteStore) CreateActivity(ctx context.Context, activity *model.Activity) error {
	if err := activity.Validate(); err != nil {
		return err
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO activities (id, project, timestamp) VALUES (?, ?, ?)`,
		activity.ID.String(), activity.Project, formatTimestamp(activity.Timestamp))
	if err != nil {
		// 外部キー制約違反はプロジェクトが存在しないことを意味する
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return fmt.Errorf("%w: %s", model.ErrProjectNotFound, activity.Project)
		}
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// GetActivity は指定されたIDのアクティビティを取得します。
func (s *SQLiteStore) GetActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	var project, timestampStr string
	err := s.conn.QueryRowContext(ctx,
		`SELECT project, timestamp FROM activities WHERE id = ?`, id.String()).
		Scan(&project, &timestampStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	timestamp, err := parseTimestamp(timestampStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse activity timestamp: %w", err)
	}
	return model.LoadActivity(id, timestamp, project)
}

// DeleteActivity は指定されたIDのアクティビティを削除します。
func (s *SQLiteStore) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return expectAffected(result, model.ErrActivityNotFound)
}

// ListActivities は指定されたプロジェクトの、指定した期間内のアクティビティを昇順で取得します。
func (s *SQLiteStore) ListActivities(ctx context.Context, params *ListActivitiesParams) ([]*model.Activity, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = -1 // SQLiteでは負のLIMITは無制限
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, timestamp FROM activities
		 WHERE project = ? AND timestamp >= ? AND timestamp <= ?
		 ORDER BY timestamp ASC, id ASC
		 LIMIT ? OFFSET ?`,
		params.Project, formatTimestamp(params.From), formatTimestamp(params.To), limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*model.Activity
	for rows.Next() {
		var idStr, timestampStr string
		if err := rows.Scan(&idStr, &timestampStr); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in database: %w", err)
		}
		timestamp, err := parseTimestamp(timestampStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse activity timestamp: %w", err)
		}
		activity, err := model.LoadActivity(id, timestamp, params.Project)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

// ListActivityTimes は指定期間内のアクティビティ日時を昇順に返すイテレータです。
// 全件をメモリに載せずに集計できるよう、行を順次読み出します。
func (s *SQLiteStore) ListActivityTimes(ctx context.Context, project string, from, to time.Time) iter.Seq2[time.Time, error] {
	return func(yield func(time.Time, error) bool) {
		rows, err := s.conn.QueryContext(ctx,
			`SELECT timestamp FROM activities
			 WHERE project = ? AND timestamp >= ? AND timestamp <= ?
			 ORDER BY timestamp ASC`,
			project, formatTimestamp(from), formatTimestamp(to))
		if err != nil {
			yield(time.Time{}, fmt.Errorf("failed to list activity times: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var timestampStr string
			if err := rows.Scan(&timestampStr); err != nil {
				yield(time.Time{}, fmt.Errorf("failed to scan activity: %w", err))
				return
			}
			timestamp, err := parseTimestamp(timestampStr)
			if err != nil {
				yield(time.Time{}, fmt.Errorf("failed to parse activity timestamp: %w", err))
				return
			}
			if !yield(timestamp, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(time.Time{}, err)
		}
	}
}

// CreateProject は新しいプロジェクトを作成します。
func (s *SQLiteStore) CreateProject(ctx context.Context, project *model.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO projects (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		project.Name, project.Description, formatTimestamp(project.CreatedAt), formatTimestamp(project.UpdatedAt))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %s", model.ErrProjectExists, project.Name)
		}
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProject は指定された名前のプロジェクトを取得します。
func (s *SQLiteStore) GetProject(ctx context.Context, name string) (*model.Project, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT name, description, created_at, updated_at FROM projects WHERE name = ?`, name)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProjectNotFound
	}
	return project, err
}

// ListProjects はすべてのプロジェクトを更新日時の降順で取得します。
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]*model.Project, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT name, description, created_at, updated_at FROM projects ORDER BY updated_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*model.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// DeleteProject はプロジェクトを削除します。アクティビティは外部キー制約によって削除されます。
func (s *SQLiteStore) DeleteProject(ctx context.Context, name string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return expectAffected(result, model.ErrProjectNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*model.Project, error) {
	var name, description, createdAtStr, updatedAtStr string
	if err := row.Scan(&name, &description, &createdAtStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	createdAt, err := parseTimestamp(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	updatedAt, err := parseTimestamp(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return model.LoadProject(name, description, createdAt, updatedAt)
}

// expectAffected は1行も変更されなかった場合に notFound を返します。
func expectAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
