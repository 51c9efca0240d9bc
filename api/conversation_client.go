package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/honganh1206/professor/agent"
	"github.com/honganh1206/professor/conversation"
	"github.com/honganh1206/professor/message"
	"github.com/honganh1206/professor/session"
)

// Conversation is the server's view of one conversation.
type Conversation struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Active   bool              `json:"active"`
	Messages []message.Message `json:"messages"`
}

func notFound(err error) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		return session.ErrConversationNotFound
	}
	return err
}

func (c *Client) CreateConversation() (*Conversation, error) {
	var conv Conversation
	if err := c.doRequest(http.MethodPost, "/conversations", nil, &conv); err != nil {
		return nil, err
	}

	return &conv, nil
}

func (c *Client) ListConversations() ([]conversation.ConversationMetadata, error) {
	var conversations []conversation.ConversationMetadata
	if err := c.doRequest(http.MethodGet, "/conversations", nil, &conversations); err != nil {
		return nil, err
	}

	return conversations, nil
}

func (c *Client) GetConversation(id string) (*Conversation, error) {
	var conv Conversation
	if err := c.doRequest(http.MethodGet, "/conversations/"+id, nil, &conv); err != nil {
		return nil, notFound(err)
	}

	return &conv, nil
}

// OpenConversation makes id the active conversation. It reports false when
// the server is in delete mode and ignored the request.
func (c *Client) OpenConversation(id string) (bool, error) {
	var result struct {
		Opened bool `json:"opened"`
	}
	path := fmt.Sprintf("/conversations/%s/open", id)
	if err := c.doRequest(http.MethodPost, path, nil, &result); err != nil {
		return false, notFound(err)
	}

	return result.Opened, nil
}

func (c *Client) DeleteConversation(id string) error {
	return c.doRequest(http.MethodDelete, "/conversations/"+id, nil, nil)
}

// SubmitPrompt runs one chat turn. When the model fails the returned turn
// still carries the stored user message and the error wraps agent.ErrUpstream.
func (c *Client) SubmitPrompt(conversationID, prompt string) (*agent.Turn, error) {
	var turn agent.Turn
	path := fmt.Sprintf("/conversations/%s/messages", conversationID)
	err := c.doRequest(http.MethodPost, path, map[string]string{"prompt": prompt}, &turn)
	if err == nil {
		return &turn, nil
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusNotFound:
			return nil, session.ErrConversationNotFound
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", agent.ErrInvalidInput, httpErr.Message)
		case http.StatusBadGateway:
			var payload struct {
				Turn *agent.Turn `json:"turn"`
			}
			json.Unmarshal(httpErr.Body, &payload)
			return payload.Turn, fmt.Errorf("%w: %s", agent.ErrUpstream, httpErr.Message)
		}
	}
	return nil, err
}

func (c *Client) DeleteMessage(conversationID string, messageID int) error {
	path := fmt.Sprintf("/conversations/%s/messages/%d", conversationID, messageID)
	return c.doRequest(http.MethodDelete, path, nil, nil)
}
