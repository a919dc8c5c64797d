// Package config はアプリケーション設定を管理します。
package config

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrAPIKeyNotSet はAPIキーが設定されていない場合のエラーです。
var ErrAPIKeyNotSet = errors.New("AXISGRAPH_API_KEY is not set")

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	// データディレクトリのパス
	DataDir string

	// HTTPサーバーのポート
	Port string

	// API認証キー
	APIKey string

	// ログレベル（debug, info, warn, error）
	LogLevel string

	// テーマファイルのパス（空の場合はデフォルト配色）
	ThemeFile string
}

// NewConfig は環境変数から設定を読み込み、Configインスタンスを生成します。
func NewConfig() (*Config, error) {
	// API認証キーの設定（デフォルトキーは設定しない）
	apiKey := os.Getenv("AXISGRAPH_API_KEY")
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	return &Config{
		DataDir:   getenv("AXISGRAPH_DATA_DIR", filepath.Join(".", "data")),
		Port:      getenv("AXISGRAPH_SERVER_PORT", "8080"),
		APIKey:    apiKey,
		LogLevel:  getenv("AXISGRAPH_LOG_LEVEL", "info"),
		ThemeFile: os.Getenv("AXISGRAPH_THEME_FILE"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
