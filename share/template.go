package share

import (
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	TemplateFuncMap = template.FuncMap{
		"fn": func(value interface{}) string {
			switch e := value.(type) {
			case float32:
				return humanize.CommafWithDigits(float64(e), 1)
			case float64:
				return humanize.CommafWithDigits(e, 1)
			case int:
				return humanize.Comma(int64(e))
			}
			return ""
		},
		"pct": func(value float64) string {
			return fmt.Sprintf("%.2f%%", value)
		},
		"sec": func(d time.Duration) string {
			return fmt.Sprintf("%.1fs", d.Seconds())
		},
		"ts": func(ms int) string {
			return fmt.Sprintf("%02d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
		},
	}
)
