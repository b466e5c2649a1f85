package domain

import "time"

// Snapshot is the persisted position of a machine.
// It references states by name; the graph itself is rebuilt from its definition.
type Snapshot struct {
	SessionID  string    `json:"session_id"`
	Play       string    `json:"play"`
	Current    string    `json:"current"`
	History    []string  `json:"history"`
	Terminated bool      `json:"terminated"`
	Success    bool      `json:"success"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Path returns the visited states followed by the current one.
func (s *Snapshot) Path() []string {
	path := make([]string, 0, len(s.History)+1)
	path = append(path, s.History...)
	return append(path, s.Current)
}
