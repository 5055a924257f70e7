package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to scene file (json type only)
}

// builder constructs a built-in scene
type builder func(cameraOverrides ...renderer.CameraConfig) *Scene

var builtins = map[string]builder{
	"default":     NewDefaultScene,
	"two-spheres": NewTwoSpheresScene,
	"materials":   NewMaterialsScene,
	"lights":      NewLightsScene,
	"sphere-grid": NewSphereGridScene,
}

// BuiltinNames returns the names of every built-in scene, sorted
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create returns the built-in scene called name, or loads name as a scene file when it
// ends in ".json". Non-zero fields of cameraOverrides replace the scene's camera settings.
func Create(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		s, err := LoadFile(name)
		if err != nil {
			return nil, err
		}
		s.CameraConfig = applyOverrides(s.CameraConfig, cameraOverrides)
		return s, nil
	}

	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (built-in scenes: %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	return build(cameraOverrides...), nil
}

// CreateIn is Create, except that a bare name matching a scene file in dir loads that
// file. Scene files shadow built-ins of the same name.
func CreateIn(dir, name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("no scene given (built-in scenes: %s)", strings.Join(BuiltinNames(), ", "))
	}
	if dir != "" && filepath.Ext(name) == "" {
		candidate := filepath.Join(dir, name+".json")
		if _, err := os.Stat(candidate); err == nil {
			return Create(candidate, cameraOverrides...)
		}
	}
	return Create(name, cameraOverrides...)
}

// ListJSONScenes scans dir for scene files. A missing directory yields no scenes.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := parseSceneMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// parseSceneMetadata reads only the name and description of a scene file
func parseSceneMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	sceneInfo := SceneInfo{
		ID:       filePath,
		Name:     nameWithoutExt,
		Type:     "json",
		FilePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, fmt.Errorf("read scene metadata: %w", err)
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return sceneInfo, fmt.Errorf("parse scene metadata %s: %w", filePath, err)
	}
	if header.Name != "" {
		sceneInfo.Name = header.Name
	}
	sceneInfo.Description = header.Description

	return sceneInfo, nil
}

// ListAllScenes returns the built-in scenes followed by the scene files in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	var scenes []SceneInfo
	for _, name := range BuiltinNames() {
		s := builtins[name]()
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Name:        name,
			Description: s.Description,
			Type:        "builtin",
		})
	}

	jsonScenes, err := ListJSONScenes(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}
	return append(scenes, jsonScenes...), nil
}
