package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/honganh1206/professor/message"
	"github.com/honganh1206/professor/session"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	Title      string
	Theme      session.Theme
	DeleteMode bool
	Sidebar    []sidebarItem
	Active     *activeView
	Flash      session.Flash
}

type sidebarItem struct {
	ID       string
	Name     string
	Active   bool
	Selected bool
}

type activeView struct {
	ID       string
	Name     string
	Messages []messageView
}

type messageView struct {
	ID        int
	Role      string
	Assistant bool
	// Body is rendered markdown for replies and plain text for prompts.
	Body template.HTML
}

func parsePage() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/index.html")
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
}

// renderMarkdown converts a model reply to HTML. Raw HTML in the reply is
// not passed through.
func (s *server) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func (s *server) renderPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	data := pageData{
		Title: s.title,
		Flash: sess.TakeFlash(),
	}

	sess.Do(func(st *session.State) error {
		data.Theme = st.Theme()
		data.DeleteMode = st.DeleteMode()

		for id, conv := range st.List() {
			data.Sidebar = append(data.Sidebar, sidebarItem{
				ID:       id,
				Name:     conv.Name,
				Active:   id == st.ActiveID(),
				Selected: st.IsSelected(id),
			})
		}

		conv, ok := st.Active()
		if !ok {
			return nil
		}

		// Indices are recomputed on every render; delete buttons carry stable ids.
		active := &activeView{ID: conv.ID, Name: conv.Name}
		for _, msg := range conv.Messages.All() {
			view := messageView{ID: msg.ID, Role: msg.Role}
			if msg.Role == message.AssistantRole {
				view.Assistant = true
				view.Body = s.renderMarkdown(msg.Content)
			} else {
				view.Body = template.HTML(template.HTMLEscapeString(msg.Content))
			}
			active.Messages = append(active.Messages, view)
		}
		data.Active = active
		return nil
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render page")
	}
}
