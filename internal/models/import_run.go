package models

import "time"

// ImportRun is one entry of the import history.
type ImportRun struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Kind      string    `json:"kind"`
	StartedAt time.Time `json:"started_at"`
	Parsed    int       `json:"parsed"`
	Appended  int       `json:"appended"`
}
