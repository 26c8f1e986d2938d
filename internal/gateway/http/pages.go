package http

import (
	"html/template"
	"net/http"

	"github.com/chainfolio/idgate/pkg/slogx"
)

// pageTemplate is the shared shell for every route page. The pages are
// deliberately thin: the dashboard UI proper is built and shipped separately,
// the gateway only guarantees that each page is reachable under the right
// flow conditions and carries the internal marker for same-origin API calls.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<meta name="internal-marker" content="{{.Marker}}">
	<title>{{.Title}}</title>
</head>
<body data-page="{{.Page}}">
	<main id="app"></main>
	<script src="/assets/app.js" defer></script>
</body>
</html>
`))

type pageData struct {
	Title  string
	Page   string
	Marker string
}

// PageHandler renders the route shells. Admission is the gatekeeper's job;
// by the time a request reaches here its route class has already been
// enforced.
type PageHandler struct {
	// MarkerValue is embedded in each shell so the page's same-origin API
	// calls can present the internal marker header.
	MarkerValue string
}

// Page returns a handler rendering the named shell.
func (h *PageHandler) Page(page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")

		err := pageTemplate.Execute(w, pageData{
			Title:  title,
			Page:   page,
			Marker: h.MarkerValue,
		})
		if err != nil {
			slogx.FromContext(r.Context()).Error("failed to render page",
				"page", page, "err", err)
		}
	}
}
