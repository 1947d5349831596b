package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Detector identifies project root folders and provides project-related information
type Detector struct {
	fs afs.Service
	// Common project root marker files/directories
	markers []string
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		fs: afs.New(),
		markers: []string{
			"go.mod",           // Go projects
			"pom.xml",          // Java/Maven projects
			"build.gradle",     // Java/Gradle projects
			"package.json",     // JavaScript/Node projects
			"Cargo.toml",       // Rust projects
			"pyproject.toml",   // Python projects
			"requirements.txt", // Python projects
			".git",             // Generic VCS marker
		},
	}
}

// DetectProject identifies the project containing dir, the search stops at boundary when supplied
func (d *Detector) DetectProject(ctx context.Context, dir string, boundary ...string) (*Project, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	limit := ""
	if len(boundary) > 0 && boundary[0] != "" {
		if limit, err = filepath.Abs(boundary[0]); err != nil {
			return nil, err
		}
	}
	project := &Project{Type: "unknown", RootPath: absPath, Name: filepath.Base(absPath)}
	rootPath, projectType := d.findProjectRoot(absPath, limit)
	if rootPath == "" {
		return project, nil
	}
	project.RootPath = rootPath
	project.Type = projectType
	project.Name = d.extractProjectName(ctx, rootPath, projectType)
	project.Origin = extractGitOrigin(rootPath)
	return project, nil
}

// findProjectRoot searches up from the start directory for project markers
func (d *Detector) findProjectRoot(startDir, limit string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, determineProjectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir || dir == limit {
			break
		}
		dir = parent
	}
	return "", ""
}

// extractProjectName attempts to extract a project name from configuration files
func (d *Detector) extractProjectName(ctx context.Context, rootPath string, projectType string) string {
	var name string
	switch projectType {
	case "go":
		name = d.goModuleName(ctx, filepath.Join(rootPath, "go.mod"))
	case "javascript":
		name = d.packageJSONName(ctx, filepath.Join(rootPath, "package.json"))
	case "java":
		name = d.mavenArtifactID(ctx, filepath.Join(rootPath, "pom.xml"))
	case "python":
		name = d.tomlName(ctx, filepath.Join(rootPath, "pyproject.toml"), "project", "tool.poetry")
	case "rust":
		name = d.tomlName(ctx, filepath.Join(rootPath, "Cargo.toml"), "package")
	case "git":
		name = gitProjectName(extractGitOrigin(rootPath))
	}
	if name == "" {
		name = filepath.Base(rootPath)
	}
	return name
}

func (d *Detector) download(ctx context.Context, location string) []byte {
	if ok, _ := d.fs.Exists(ctx, location); !ok {
		return nil
	}
	content, _ := d.fs.DownloadWithURL(ctx, location)
	return content
}

func (d *Detector) goModuleName(ctx context.Context, goModPath string) string {
	content := d.download(ctx, goModPath)
	if len(content) == 0 {
		return ""
	}
	if mod, _ := modfile.ParseLax(goModPath, content, nil); mod != nil && mod.Module != nil {
		return mod.Module.Mod.Path
	}
	return ""
}

func (d *Detector) packageJSONName(ctx context.Context, location string) string {
	content := d.download(ctx, location)
	if len(content) == 0 {
		return ""
	}
	pkg := struct {
		Name string `json:"name"`
	}{}
	_ = json.Unmarshal(content, &pkg)
	return pkg.Name
}

func (d *Detector) mavenArtifactID(ctx context.Context, location string) string {
	content := d.download(ctx, location)
	if len(content) == 0 {
		return ""
	}
	pom := struct {
		ArtifactID string `xml:"artifactId"`
	}{}
	_ = xml.Unmarshal(content, &pom)
	return pom.ArtifactID
}

// tomlName returns name key of the first section found, dotted sections are nested tables
func (d *Detector) tomlName(ctx context.Context, location string, sections ...string) string {
	content := d.download(ctx, location)
	if len(content) == 0 {
		return ""
	}
	doc := map[string]interface{}{}
	if err := toml.Unmarshal(content, &doc); err != nil {
		return ""
	}
	for _, section := range sections {
		var node interface{} = doc
		for _, key := range strings.Split(section, ".") {
			table, ok := node.(map[string]interface{})
			if !ok {
				node = nil
				break
			}
			node = table[key]
		}
		if table, ok := node.(map[string]interface{}); ok {
			if name, ok := table["name"].(string); ok && name != "" {
				return name
			}
		}
	}
	return ""
}

// extractGitOrigin extracts the origin URL from git config
func extractGitOrigin(root string) string {
	content, err := os.ReadFile(filepath.Join(root, ".git", "config"))
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(content))
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			foundRemote = strings.Contains(line, "[remote \"origin\"]")
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url") {
			if _, value, ok := strings.Cut(line, "="); ok {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

func gitProjectName(origin string) string {
	origin = strings.TrimSuffix(strings.TrimSuffix(origin, "/"), ".git")
	if index := strings.LastIndexAny(origin, "/:"); index != -1 {
		return origin[index+1:]
	}
	return origin
}

// determineProjectType identifies the type of project based on the marker file
func determineProjectType(marker string) string {
	switch marker {
	case "go.mod":
		return "go"
	case "pom.xml", "build.gradle":
		return "java"
	case "package.json":
		return "javascript"
	case "Cargo.toml":
		return "rust"
	case "pyproject.toml", "requirements.txt":
		return "python"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}
