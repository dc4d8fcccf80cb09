// Package templates renders the dashboard HTML as templ components.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

import (
	"fmt"
	"strconv"

	"github.com/JonMunkholm/dataview/internal/core"
)

// HTMXSrc is the htmx build loaded by the layout.
const HTMXSrc = "https://unpkg.com/htmx.org@1.9.12"

// StatusKind selects the styling of a status message.
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusWarning StatusKind = "warning"
	StatusError   StatusKind = "error"
)

// Status is the one-line feedback shown above the preview.
type Status struct {
	Kind StatusKind
	Text string
}

// DashboardView is everything the dashboard page needs.
type DashboardView struct {
	Options     []string
	Selected    string
	Accept      string
	MaxFileSize int64
	Status      *Status
	Preview     core.Preview
}

func alertClass(k StatusKind) string {
	return "alert-" + string(k)
}

func shapeText(p core.Preview) string {
	return fmt.Sprintf("%d rows × %d columns", p.Rows, p.Cols)
}

func indexLabel(tv core.TableView, i int) string {
	if i < len(tv.Index) {
		return tv.Index[i]
	}
	return ""
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.0f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

const pageStyle = `<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f7f7f9;color:#222}
main{max-width:1100px;margin:0 auto;padding:1.5rem}
h1{margin:0 0 .25rem}h2{margin-top:1.5rem;font-size:1.15rem}
.hint{color:#666;font-size:.9rem}
form{display:flex;flex-wrap:wrap;gap:1rem;align-items:end;background:#fff;padding:1rem;border-radius:8px;box-shadow:0 1px 2px rgba(0,0,0,.08)}
label{display:flex;flex-direction:column;gap:.3rem;font-weight:600}
button{padding:.5rem 1.2rem;border:0;border-radius:6px;background:#4b6cb7;color:#fff;cursor:pointer}
.alert{margin:1rem 0;padding:.75rem 1rem;border-radius:6px}
.alert-success{background:#e6f4ea;color:#1e4620}
.alert-warning{background:#fff4e5;color:#663c00}
.alert-error{background:#fdecea;color:#611a15}
.scroll{overflow-x:auto;background:#fff;border-radius:8px}
table{border-collapse:collapse;font-size:.85rem;width:100%}
th,td{padding:.35rem .6rem;border-bottom:1px solid #eee;text-align:right;white-space:nowrap}
thead th{background:#fafafa}
td.na{color:#aaa}
</style>`
