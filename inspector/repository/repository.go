package repository

// Project represents information about a detected project
type Project struct {
	RootPath string `json:"root_path"` // Absolute path to the project root directory
	Type     string `json:"type"`      // Type of project (go, java, javascript, python, rust, git, unknown)
	Name     string `json:"name"`      // Name of the project (extracted from config files)
	Origin   string `json:"origin,omitempty"`
}
