package feeding

import (
	"io"
	"sort"
	"html/template"

	"combatlog_check/share"

	"github.com/pkg/errors"
)

// Ability is the healing one ability fed into a category.
type Ability struct {
	Name             string  `json:"name"`
	Icon             string  `json:"icon"`
	Healing          float64 `json:"healing"`
	EffectiveHealing float64 `json:"effective_healing"`
	Merged           float64 `json:"merged"`
}

type Category struct {
	Name      string           `json:"name"`
	Total     float64          `json:"total"`
	Abilities map[int]*Ability `json:"abilities"`
}

type Row struct {
	ID int

	Name             string
	Icon             string
	Healing          float64
	EffectiveHealing float64
	Merged           float64

	Percent    float64 // of the category total
	BarPercent float64 // of the largest row
}

type Table struct {
	Name       string
	Total      float64
	MaxHealing float64
	Rows       []Row
}

// Build turns the category totals into sorted tables. Categories without
// healing are omitted; expanded keeps only abilities with merged healing.
func Build(categories []Category, expanded bool) []Table {
	tables := make([]Table, 0, len(categories))

	for _, cat := range categories {
		if cat.Total == 0 {
			continue
		}

		t := Table{
			Name:  cat.Name,
			Total: cat.Total,
			Rows:  make([]Row, 0, len(cat.Abilities)),
		}

		for id, a := range cat.Abilities {
			if a == nil {
				continue
			}
			if a.Healing > t.MaxHealing {
				t.MaxHealing = a.Healing
			}
			if expanded && a.Merged == 0 {
				continue
			}

			t.Rows = append(
				t.Rows,
				Row{
					ID:               id,
					Name:             a.Name,
					Icon:             a.Icon,
					Healing:          a.Healing,
					EffectiveHealing: a.EffectiveHealing,
					Merged:           a.Merged,
					Percent:          a.Healing / cat.Total * 100,
				},
			)
		}

		for i := range t.Rows {
			if t.MaxHealing > 0 {
				t.Rows[i].BarPercent = t.Rows[i].Healing / t.MaxHealing * 100
			}
		}

		sort.Slice(
			t.Rows,
			func(i, k int) bool {
				if t.Rows[i].Healing == t.Rows[k].Healing {
					return t.Rows[i].ID < t.Rows[k].ID
				}
				return t.Rows[i].Healing > t.Rows[k].Healing
			},
		)

		tables = append(tables, t)
	}

	return tables
}

var tmplTable = template.Must(template.New("feeding").Funcs(share.TemplateFuncMap).Parse(
	`{{ range . }}<table class="feeding">
<thead><tr><th colspan="3">{{ .Name }}</th><th>{{ fn .Total }}</th></tr></thead>
<tbody>
{{- range .Rows }}
<tr><td>{{ if .Icon }}<img src="{{ .Icon }}" alt=""> {{ end }}{{ .Name }}</td><td>{{ pct .Percent }}</td><td><div class="bar" style="width: {{ printf "%.2f" .BarPercent }}%"></div></td><td>{{ fn .Healing }}</td></tr>
{{- end }}
</tbody>
</table>
{{ end }}`,
))

func Render(w io.Writer, tables []Table) error {
	return errors.WithStack(tmplTable.Execute(w, tables))
}
