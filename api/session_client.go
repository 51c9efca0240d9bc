package api

import (
	"net/http"

	"github.com/honganh1206/professor/session"
)

func (c *Client) State() (*session.Snapshot, error) {
	var snap session.Snapshot
	if err := c.doRequest(http.MethodGet, "/state", nil, &snap); err != nil {
		return nil, err
	}

	return &snap, nil
}

func (c *Client) ToggleDeleteMode() (bool, error) {
	var result struct {
		DeleteMode bool `json:"delete_mode"`
	}
	if err := c.doRequest(http.MethodPost, "/delete-mode", nil, &result); err != nil {
		return false, err
	}

	return result.DeleteMode, nil
}

// SetSelected mirrors a sidebar checkbox and returns the current selection.
func (c *Client) SetSelected(id string, selected bool) ([]string, error) {
	var result struct {
		Selected []string `json:"selected_ids"`
	}
	body := map[string]bool{"selected": selected}
	if err := c.doRequest(http.MethodPut, "/selection/"+id, body, &result); err != nil {
		return nil, err
	}

	return result.Selected, nil
}

func (c *Client) CommitSelection() (int, error) {
	var result struct {
		Deleted int `json:"deleted"`
	}
	if err := c.doRequest(http.MethodPost, "/selection/commit", nil, &result); err != nil {
		return 0, err
	}

	return result.Deleted, nil
}

func (c *Client) SetTheme(theme session.Theme) error {
	return c.doRequest(http.MethodPut, "/theme", map[string]session.Theme{"theme": theme}, nil)
}

func (c *Client) SendFeedback(text string) error {
	return c.doRequest(http.MethodPost, "/feedback", map[string]string{"text": text}, nil)
}
