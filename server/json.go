package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

// wantsHTML reports whether the request came from a plain HTML form.
func wantsHTML(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// respond finishes a successful action: JSON for API callers, back to the
// page for form posts.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if wantsHTML(r) {
		redirectHome(w, r)
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, v)
}

// input holds the flat fields of a form post or JSON object body.
type input map[string]string

func bindInput(r *http.Request) (input, error) {
	in := input{}

	if wantsHTML(r) {
		if err := r.ParseForm(); err != nil {
			return nil, &HTTPError{Code: http.StatusBadRequest, Message: "Invalid form", Err: err}
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				in[k] = v[0]
			}
		}
		return in, nil
	}

	if r.Body == nil {
		return in, nil
	}

	var raw map[string]any
	if err := decodeJSON(r, &raw); err != nil {
		if errors.Is(err, io.EOF) {
			return in, nil
		}
		return nil, &HTTPError{Code: http.StatusBadRequest, Message: "Invalid JSON body", Err: err}
	}

	for k, v := range raw {
		switch val := v.(type) {
		case string:
			in[k] = val
		case bool:
			in[k] = strconv.FormatBool(val)
		case nil:
		default:
			in[k] = fmt.Sprint(val)
		}
	}
	return in, nil
}

// Bool reads a checkbox-style field. Missing means false.
func (in input) Bool(key string) (bool, error) {
	v, ok := in[key]
	if !ok || v == "" {
		return false, nil
	}
	if v == "on" {
		return true, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &HTTPError{Code: http.StatusBadRequest, Message: fmt.Sprintf("Invalid value for %s", key), Err: err}
	}
	return b, nil
}
