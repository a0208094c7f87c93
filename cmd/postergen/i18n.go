// Package main provides localization for the postergen CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Generate custom posters from video frames": "動画フレームからカスタムポスターを生成",

		// Subcommands
		"Run the poster generator HTTP API":  "ポスター生成HTTP APIを起動",
		"Render a poster from a scene file":  "シーンファイルからポスターをレンダリング",
		"Print video metadata as JSON":       "動画メタデータをJSONで表示",

		// Flags
		"Log level (debug, info, warn, error)":     "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                  "すべてのログ出力を抑制",
		"Output directory for the rendered poster": "レンダリングしたポスターの出力先ディレクトリ",
		"Directory searched first for fonts":       "フォントを最初に検索するディレクトリ",
		"Poster width in pixels":                   "ポスターの幅（ピクセル）",
		"Poster height in pixels":                  "ポスターの高さ（ピクセル）",
		"Path to ffmpeg executable":                "ffmpeg実行ファイルのパス",
		"Path to ffprobe executable":               "ffprobe実行ファイルのパス",
		"Save intermediate render stages":          "レンダリングの中間段階を保存",
		"Directory for debug output":               "デバッグ出力用ディレクトリ",

		// Runtime messages
		"Interrupted, shutting down...":                               "中断されました。シャットダウンしています...",
		"File locking unavailable, falling back to in-process locks":  "ファイルロックが利用できないため、プロセス内ロックに切り替えます",
		"Listening on :%d (%d video roots)":                           ":%d で待機中（動画ルート %d 件）",
		"render requires exactly one scene file argument":             "render にはシーンファイルの引数が1つ必要です",
		"probe requires exactly one video argument":                   "probe には動画の引数が1つ必要です",
	})
}
