package render

import (
	"bytes"
	"html/template"
)

// PageData is everything the single page needs.
type PageData struct {
	Input string
	Alert string
	View  View
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{- if eq .View.Block "loading"}}
<meta http-equiv="refresh" content="1">
{{- end}}
<title>Weather Forecast</title>
</head>
<body>
<h1>Weather Forecast</h1>
<form method="post" action="/">
<input type="text" name="city" placeholder="Enter a city" value="{{.Input}}">
<button type="submit"{{if eq .View.Block "loading"}} disabled{{end}}>Search</button>
</form>
{{- if .Alert}}
<p class="alert" role="alert">{{.Alert}}</p>
{{- end}}
{{- with .View}}
{{- if eq .Block "loading"}}
<p class="loading">Loading...</p>
{{- else if eq .Block "weather"}}
<div class="weather">
<i class="icon fa-{{.Icon}}" data-icon="{{.Icon}}"></i>
<h2>{{.Heading}}</h2>
<p class="temperature">{{.Temp}}</p>
<p class="conditions">{{.Conditions}}</p>
<p class="details">Humidity: {{.Humidity}} Wind: {{.WindSpeed}}</p>
</div>
{{- else if eq .Block "error"}}
<p class="error">{{.Message}}</p>
{{- end}}
{{- end}}
</body>
</html>
`))

// Page renders the HTML page for data.
func Page(data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
