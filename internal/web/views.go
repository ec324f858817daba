package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/csvview/internal/core"
	"github.com/JonMunkholm/csvview/internal/history"
	"github.com/JonMunkholm/csvview/internal/logging"
	"github.com/JonMunkholm/csvview/internal/source"
)

// previewRows is how many data rows the page shows.
const previewRows = 200

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2937}
table{border-collapse:collapse;font-size:.875rem}
th,td{border:1px solid #d1d5db;padding:.25rem .5rem;text-align:left;white-space:pre}
th{background:#f3f4f6}
.alert{border:1px solid #fca5a5;background:#fef2f2;padding:1rem;margin-bottom:1rem}
.muted{color:#6b7280}
form{margin:1rem 0}`

// renderHTML writes c with status. Render errors are logged; the status
// line is already gone by then.
func renderHTML(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error", "error", err)
	}
}

// htmlWriter keeps the first write error so components can write freely.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(title)
		h.raw(`</title><style>` + pageStyle + `</style></head><body><h1><a href="/">csvview</a></h1>`)
		h.render(ctx, body)
		h.raw(`</body></html>`)
		return h.err
	})
}

func errorAlert(resp ErrorResponse) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(resp.Message)
		h.raw(`</strong> <span class="muted">(`)
		h.text(resp.Code)
		h.raw(`)</span>`)
		if resp.Error != resp.Message {
			h.raw(`<p><code>`)
			h.text(resp.Error)
			h.raw(`</code></p>`)
		}
		if resp.Action != "" {
			h.raw(`<p>`)
			h.text(resp.Action)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

func errorPage(resp ErrorResponse) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.render(ctx, errorAlert(resp))
		h.raw(`<p><a href="/">Back</a></p>`)
		return h.err
	})
	return layout("Error - csvview", body)
}

type indexView struct {
	Doc         *core.Document
	Recent      []history.Entry
	MaxFileSize int64
}

func indexPage(v indexView) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.render(ctx, uploadForm(v.MaxFileSize))
		if v.Doc == nil {
			h.raw(`<p class="muted">No document is open.</p>`)
		} else {
			h.render(ctx, documentView(v.Doc))
		}
		h.render(ctx, recentList(v.Recent))
		return h.err
	})
	return layout("csvview", body)
}

func uploadForm(maxSize int64) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form method="post" action="/open" enctype="multipart/form-data">`)
		h.raw(`<input type="file" name="file" accept=".csv,.tsv,.txt" required> `)
		h.raw(`<label>Delimiter <select name="delimiter">`)
		h.raw(`<option value="">from extension</option><option value="comma">comma</option>`)
		h.raw(`<option value="tab">tab</option><option value="semicolon">semicolon</option>`)
		h.raw(`<option value="pipe">pipe</option></select></label> `)
		h.raw(`<label>Header <select name="header"><option value="true">yes</option>`)
		h.raw(`<option value="false">no</option></select></label> `)
		h.raw(`<button type="submit">Open</button> <span class="muted">max `)
		h.text(formatBytes(maxSize))
		h.raw(`</span></form>`)
		return h.err
	})
}

func documentView(doc *core.Document) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		t := doc.Table
		h := &htmlWriter{w: w}
		h.raw(`<h2>`)
		h.text(doc.Name)
		h.raw(`</h2><p class="muted">`)
		h.text(fmt.Sprintf("%d rows, %d columns, %s delimited, parsed in %s",
			t.Rows(), t.Columns(), source.DelimiterName(doc.Delimiter), doc.ParseDuration.Round(time.Microsecond)))
		h.raw(`</p><p><a href="/api/document/export?format=csv">Export CSV</a> `)
		h.raw(`<a href="/api/document/export?format=tsv">Export TSV</a></p>`)
		h.raw(`<form method="post" action="/close"><button type="submit">Close</button></form>`)

		h.raw(`<table>`)
		if header := t.Header(); len(header) > 0 {
			h.raw(`<thead><tr><th>#</th>`)
			for _, v := range header {
				h.raw(`<th>`)
				h.text(v)
				h.raw(`</th>`)
			}
			h.raw(`</tr></thead>`)
		}
		h.raw(`<tbody>`)
		shown := min(t.Rows(), previewRows)
		for i := 0; i < shown; i++ {
			h.raw(`<tr><td class="muted">`)
			h.raw(strconv.Itoa(i + 1))
			h.raw(`</td>`)
			for _, v := range t.Row(i) {
				h.raw(`<td>`)
				h.text(v)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
		if t.Rows() > shown {
			h.raw(`<p class="muted">`)
			h.text(fmt.Sprintf("Showing %d of %d rows.", shown, t.Rows()))
			h.raw(`</p>`)
		}
		return h.err
	})
}

func recentList(recent []history.Entry) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(recent) == 0 {
			return nil
		}
		h := &htmlWriter{w: w}
		h.raw(`<h3>Recent files</h3><ul>`)
		for _, e := range recent {
			h.raw(`<li>`)
			h.text(e.Path)
			if e.Rows > 0 || e.Columns > 0 {
				h.raw(` <span class="muted">`)
				h.text(fmt.Sprintf("%d x %d", e.Rows, e.Columns))
				h.raw(`</span>`)
			}
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
		return h.err
	})
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
