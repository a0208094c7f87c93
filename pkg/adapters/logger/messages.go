package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Frame cache
		"Cache hit for %s at %.3fs":     "キャッシュヒット: %s (%.3f秒)",
		"Cache miss for %s at %.3fs":    "キャッシュミス: %s (%.3f秒)",
		"Evicted %d cache entries (%d bytes)": "キャッシュエントリを %d 件削除 (%d バイト)",
		"Frame extraction failed: %s":   "フレーム抽出に失敗: %s",

		// Compositor
		"Rendering poster %dx%d":        "ポスターをレンダリング中 %dx%d",
		"Poster saved as %s":            "ポスターを %s として保存しました",
		"Background frame unavailable, keeping base canvas": "背景フレームを取得できないため、ベースキャンバスを使用します",
		"Font %s not found, using fallback": "フォント %s が見つからないため、フォールバックを使用します",

		// ffmpeg
		"Probing %s":                    "%s を解析中",
		"Extracting frame at %.3fs":     "%.3f秒 のフレームを抽出中",
	})
}
