package wcl

import (
	"strconv"
	"strings"
	"text/template"
)

var funcMap = template.FuncMap{
	"join": func(v []int) string {
		s := make([]string, len(v))
		for i, n := range v {
			s[i] = strconv.Itoa(n)
		}
		return strings.Join(s, ",")
	},
}

var (
	tmplReportFights = template.Must(template.New("fights").Funcs(funcMap).Parse(`query {
	reportData {
		report(code: "{{ .Code }}") {
			fights(fightIDs: [{{ join .FightIDs }}]) {
				id
				encounterID
				name
				startTime
				endTime
				kill
			}
			masterData {
				actors(type: "Player") {
					id
					name
					server
					subType
				}
			}
		}
	}
}`))

	tmplReportCastsEvents = template.Must(template.New("casts").Parse(`query {
	reportData {
		report(code: "{{ .Code }}") {
			events(
				fightIDs: [{{ .FightID }}]
				sourceID: {{ .SourceID }}
				dataType: Casts
				includeResources: true
				startTime: {{ .StartTime }}
				endTime: {{ .EndTime }}
				limit: 10000
			) {
				data
				nextPageTimestamp
			}
		}
	}
}`))
)
