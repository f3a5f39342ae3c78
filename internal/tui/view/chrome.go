package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/gallery-cli/internal/tui/theme"
)

func Header(columns, shown int, th tuitheme.Theme) string {
	pill := th.ModePill.Render(fmt.Sprintf("%d cols • %d photos", columns, shown))
	return th.Title.Render("Gallery") + " " + pill
}

func Toolbar(inOverlay bool) string {
	if inOverlay {
		return "o open page | y copy URL | any other key or click: close | q quit"
	}
	return "hjkl/arrows move | enter view | n more | r retry | c columns | t captions | i images | L log | ? help | q quit"
}

func CompactFooter(page, shown, columns int, captions, images bool, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(fmt.Sprintf("%d", page)),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
		th.MetaLabel.Render("columns") + " " + th.MetaValue.Render(fmt.Sprintf("%d", columns)),
		th.MetaLabel.Render("captions") + " " + th.MetaValue.Render(onOff(captions)),
		th.MetaLabel.Render("images") + " " + th.MetaValue.Render(onOff(images)),
	}
	return strings.Join(parts, " • ")
}

// Activity is what the status line reports about the feed.
type Activity struct {
	Loading   bool
	Exhausted bool
	Spinner   string
	Status    string
	Warning   string
	// CanRetry marks a warning the r key can clear.
	CanRetry bool
}

func CompactMessage(a Activity, th tuitheme.Theme) string {
	state := "idle"
	stateLabel := th.StateIdle.Render("state")
	switch {
	case a.Warning != "":
		state = "warning"
		stateLabel = th.StateWarn.Render("state")
	case a.Loading:
		state = "loading"
		stateLabel = th.StateLoad.Render("state")
	case a.Exhausted:
		state = "done"
		stateLabel = th.StateDone.Render("state")
	}

	main := "Ready"
	switch {
	case a.Status != "":
		main = a.Status
	case a.Warning != "":
		main = a.Warning
		if a.CanRetry {
			main += " (r to retry)"
		}
	case a.Loading:
		main = "Loading photos..."
	case a.Exhausted:
		main = "No more photos"
	}
	if a.Loading && a.Spinner != "" {
		main = a.Spinner + " " + main
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func Help() string {
	lines := []string{
		"Navigation:",
		"  h/j/k/l or arrows move between cards, pgup/pgdown jump, g/G top/bottom",
		"  mouse wheel scrolls, click a card to view it",
		"Viewing:",
		"  enter/space opens the selected photo, any key or click closes it",
		"  o opens the photo page in the browser, y copies the image URL",
		"Feed:",
		"  more photos load when the last card scrolls into view",
		"  n loads the next page now, r retries after an error",
		"Options:",
		"  c cycles columns (2-5), t toggles captions, i toggles inline images",
		"  L shows recent fetches, ? closes this help",
	}
	return strings.Join(lines, "\n")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
