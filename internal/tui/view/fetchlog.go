package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/gallery-cli/internal/render/caption"
	"github.com/glabrego/gallery-cli/internal/storage"
	tuitheme "github.com/glabrego/gallery-cli/internal/tui/theme"
)

// FetchLog lists recent page fetches, newest first.
func FetchLog(records []storage.FetchRecord, width int, th tuitheme.Theme) string {
	lines := []string{th.Title.Render("Recent fetches") + " " + th.MetaLabel.Render("(L to close)"), ""}
	if len(records) == 0 {
		return strings.Join(append(lines, th.MetaValue.Render("No fetches recorded yet.")), "\n")
	}
	for _, rec := range records {
		when := rec.FetchedAt.Local().Format("15:04:05")
		result := th.StateIdle.Render(fmt.Sprintf("%d photos", rec.ItemCount))
		if rec.Error != "" {
			result = th.StateWarn.Render("failed: " + caption.Truncate(rec.Error, max(10, width-40)))
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			th.MetaLabel.Render(when),
			th.MetaValue.Render(fmt.Sprintf("page %-3d", rec.Page)),
			th.MetaValue.Render(fmt.Sprintf("%5dms", rec.Duration.Milliseconds())),
			result,
		))
	}
	return strings.Join(lines, "\n")
}
