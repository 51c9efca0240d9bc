package server

import (
	"net/http"

	"github.com/honganh1206/professor/session"
)

func (s *server) toggleDeleteMode(w http.ResponseWriter, r *http.Request) {
	var deleteMode bool
	sessionFrom(r.Context()).Do(func(st *session.State) error {
		deleteMode = st.ToggleDeleteMode()
		return nil
	})

	respond(w, r, http.StatusOK, map[string]bool{"delete_mode": deleteMode})
}

// setSelection mirrors a sidebar checkbox while in delete mode.
func (s *server) setSelection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	in, err := bindInput(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	checked, err := in.Bool("selected")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var snap session.Snapshot
	sessionFrom(r.Context()).Do(func(st *session.State) error {
		st.SetSelected(id, checked)
		snap = st.Snapshot()
		return nil
	})

	respond(w, r, http.StatusOK, map[string]any{
		"delete_mode":  snap.DeleteMode,
		"selected_ids": snap.Selected,
	})
}

func (s *server) commitSelection(w http.ResponseWriter, r *http.Request) {
	var deleted int
	sessionFrom(r.Context()).Do(func(st *session.State) error {
		deleted = st.CommitSelection()
		return nil
	})

	respond(w, r, http.StatusOK, map[string]int{"deleted": deleted})
}

func (s *server) setTheme(w http.ResponseWriter, r *http.Request) {
	in, err := bindInput(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	theme, err := session.ParseTheme(in["theme"])
	if err != nil {
		handleError(w, r, err)
		return
	}

	sessionFrom(r.Context()).Do(func(st *session.State) error {
		st.SetTheme(theme)
		return nil
	})

	respond(w, r, http.StatusOK, map[string]session.Theme{"theme": theme})
}
