package Templates

import (
	"embed"
	"net/http"
	"strings"
	"time"

	"HomeList/Scheduling"

	"github.com/gofiber/template/html"
)

//go:embed layouts pages emails
var files embed.FS

// Engine returns the html engine for pages and e-mails. With a non-empty
// dir templates are read from disk and reloaded on every render, which is
// handy while editing them.
func Engine(dir string) *html.Engine {
	var engine *html.Engine
	if dir != "" {
		engine = html.New(dir, ".html")
		engine.Reload(true)
	} else {
		engine = html.NewFileSystem(http.FS(files), ".html")
	}
	for name, fn := range Funcs() {
		engine.AddFunc(name, fn)
	}
	return engine
}

// Funcs are the helpers every template may call.
func Funcs() map[string]interface{} {
	return map[string]interface{}{
		"dueLabel": func(due time.Time) string {
			return Scheduling.DueLabel(due, Scheduling.DateOf(time.Now()))
		},
		"frequencyLabel": Scheduling.FrequencyLabel,
		"isoDate":        Scheduling.FormatDate,
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}
}
