// Package prefabs holds authored encounters and difficulty scripts. Files are
// embedded in the binary; a copy under ./prefabs on disk takes precedence so
// tuning can be edited and hot reloaded without a rebuild.
package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var EncountersFS embed.FS

// Dir is the on-disk override directory.
var Dir = "prefabs"

// Load returns an encounter file, preferring the on-disk copy.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return EncountersFS.ReadFile(clean)
}

// LoadScript returns a script file, preferring the on-disk copy.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// ModTime reports the modification time of the on-disk copy, if any.
func ModTime(name string) (time.Time, bool) {
	clean := cleanPrefabPath(name)
	if isScriptFile(clean) {
		clean = cleanScriptPath(name)
	}
	info, err := os.Stat(diskPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanPrefabPath(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(name string) string {
	if name == "" {
		return ""
	}

	s := filepath.ToSlash(name)

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return path.Join("scripts", s)
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
