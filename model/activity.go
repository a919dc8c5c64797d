// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Activity は1回の活動（コントリビューション）の日時を表すモデルです。
type Activity struct {
	ID        uuid.UUID `json:"id"`
	Project   string    `json:"project"`   // プロジェクト名
	Timestamp time.Time `json:"timestamp"` // 活動の日時
}

// NewActivity はActivityの新しいインスタンスを作成します。
func NewActivity(timestamp time.Time, project string) (*Activity, error) {
	a := &Activity{
		ID:        uuid.New(),
		Project:   project,
		Timestamp: timestamp,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// LoadActivity は既存のActivityインスタンスを作成します。
func LoadActivity(id uuid.UUID, timestamp time.Time, project string) (*Activity, error) {
	// DBから読み込んだアクティビティなので、IDは必須
	if id == uuid.Nil {
		return nil, errors.New("id is required for loaded activity")
	}
	a := &Activity{
		ID:        id,
		Project:   project,
		Timestamp: timestamp,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate はアクティビティのデータバリデーションを行います。
func (a *Activity) Validate() error {
	if a.Timestamp.IsZero() {
		return NewValidationError("timestamp is required")
	}
	if a.Project == "" {
		return NewValidationError("project is required")
	}
	return nil
}
