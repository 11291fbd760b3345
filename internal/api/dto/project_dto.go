package dto

import "time"

// ProjectCreateRequest payload for new projects.
type ProjectCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ProjectResponse describes one project.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileResponse describes one uploaded file.
type FileResponse struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotResponse describes one snapshot.
type SnapshotResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// CommandCreateRequest payload for new commands.
type CommandCreateRequest struct {
	Text string `json:"text"`
}

// CommandResponse describes one stored command.
type CommandResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PairingCreateRequest payload for device pairing.
type PairingCreateRequest struct {
	DeviceName string `json:"device_name"`
}

// PairingResponse carries the issued pairing token.
type PairingResponse struct {
	Token      string    `json:"token"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// SettingsSaveRequest replaces the settings document.
type SettingsSaveRequest struct {
	Settings map[string]any `json:"settings"`
	Reason   string         `json:"reason"`
}

// WeatherResponse surfaces current conditions.
type WeatherResponse struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"wind_speed"`
	Condition   string  `json:"condition"`
}

// TranscriptionResponse is the recognized text for an upload.
type TranscriptionResponse struct {
	Text string `json:"text"`
}
