package ports

import "time"

// Health describes the loaded corpus and active backend.
type Health struct {
	Backend  string    `json:"backend"`
	Entries  int       `json:"entries"`
	LoadedAt time.Time `json:"loaded_at"`
}
