package session

import "github.com/honganh1206/professor/conversation"

type Snapshot struct {
	ActiveID      string                              `json:"active_id,omitempty"`
	DeleteMode    bool                                `json:"delete_mode"`
	Selected      []string                            `json:"selected_ids"`
	Theme         Theme                               `json:"theme"`
	Conversations []conversation.ConversationMetadata `json:"conversations"`
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		ActiveID:      s.activeID,
		DeleteMode:    s.deleteMode,
		Selected:      s.Selected(),
		Theme:         s.theme,
		Conversations: make([]conversation.ConversationMetadata, 0, len(s.conversations)),
	}

	for _, conv := range s.List() {
		snap.Conversations = append(snap.Conversations, conv.Metadata())
	}

	return snap
}
