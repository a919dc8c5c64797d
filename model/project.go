// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"regexp"
	"time"
)

// プロジェクト名はURLパスに使用するため、英数字・ハイフン・アンダースコアのみ許可
var projectNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Project はアクティビティをまとめるプロジェクトを表すモデルです。
type Project struct {
	Name        string    `json:"name"`        // プロジェクト名
	Description string    `json:"description"` // プロジェクトの説明
	CreatedAt   time.Time `json:"created_at"`  // 作成日時
	UpdatedAt   time.Time `json:"updated_at"`  // 更新日時
}

// NewProject は新しいProjectインスタンスを作成します。
func NewProject(name, description string) (*Project, error) {
	now := time.Now()
	return LoadProject(name, description, now, now)
}

// LoadProject は既存のProjectインスタンスを作成します。
func LoadProject(name, description string, createdAt, updatedAt time.Time) (*Project, error) {
	p := &Project{
		Name:        name,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate はプロジェクトのデータバリデーションを行います。
func (p *Project) Validate() error {
	if p.Name == "" {
		return NewValidationError("name is required")
	}
	if !projectNamePattern.MatchString(p.Name) {
		return NewValidationError("name may only contain letters, digits, '-' and '_' (max 64)")
	}
	if p.CreatedAt.IsZero() {
		return NewValidationError("created_at is required")
	}
	if p.UpdatedAt.IsZero() {
		return NewValidationError("updated_at is required")
	}
	return nil
}
