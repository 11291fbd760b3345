package domain

import "time"

// Project is a stored assistant project.
type Project struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
}

// ProjectFile records an uploaded file belonging to a project. Content
// lives on disk under the project folder; only metadata is stored.
type ProjectFile struct {
	ID        string
	ProjectID string
	Filename  string
	CreatedAt time.Time
}

// Snapshot captures a project's metadata plus a copy of its files folder
// at a point in time.
type Snapshot struct {
	ID        string
	ProjectID string
	MetaJSON  string
	Path      string
	CreatedAt time.Time
}
