package analysis

import (
	"html/template"

	"combatlog_check/share"
)

var (
	tmplResult = template.Must(template.New("result").Funcs(share.TemplateFuncMap).Parse(`<div class="result" data-state="{{ .State }}">
{{- if eq .State "normal" }}
<h2>{{ .Player }} <small>{{ .Preset }}</small></h2>
<p class="updated">{{ .UpdatedAt }} / <a href="{{ .ReportLink }}" target="_blank">{{ .ReportCode }}</a></p>
{{ template "fight" .Total }}
{{- range .Fights }}
{{ template "fight" . }}
{{- end }}
{{- else if eq .State "notfound" }}
<p class="error">Report not found.</p>
{{- else if eq .State "nolog" }}
<p class="error">No matching fights in this report.</p>
{{- else }}
<p class="error">Invalid request.</p>
{{- end }}
</div>
{{ define "fight" -}}
<section class="fight">
<h3>{{ .Name }}{{ if .FightID }} (#{{ .FightID }}{{ if .Kill }}, kill{{ end }}){{ end }}</h3>
<dl class="statistic">
<dt>Effective reduction</dt><dd>{{ sec .Statistic.EffectiveReduction }}</dd>
<dt>Wasted reduction</dt><dd>{{ sec .Statistic.WastedReduction }}</dd>
<dt>Efficiency</dt><dd>{{ pct .Statistic.Efficiency }}</dd>
<dt>Casts</dt><dd>{{ fn .Counters.TotalCasts }} ({{ fn .Counters.WastedCasts }} wasted)</dd>
</dl>
{{- if .Suggestions }}
<ul class="suggestions">
{{- range .Suggestions }}
<li class="{{ .Importance }}">{{ .Text }} <span>{{ .Actual }}</span> <span>{{ .Recommended }}</span></li>
{{- end }}
</ul>
{{- end }}
{{- if .Casts }}
<table class="casts">
{{- range .Casts }}
<tr><td>{{ ts .Timestamp }}</td><td>{{ if .Icon }}<img src="{{ .Icon }}" alt=""> {{ end }}{{ .Ability }}</td><td>{{ .Reason }}</td></tr>
{{- end }}
</table>
{{- end }}
</section>
{{- end }}`))
)
