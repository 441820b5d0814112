// Package tools discovers previously generated analysis artifacts on disk
// and matches incoming questions against them, so proven report generators
// are reused instead of rebuilding the same query from scratch.
package tools

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Artifact is one executable analysis script registered in the inventory.
type Artifact struct {
	Name         string
	Path         string
	Description  string
	Capabilities []string
	ModTime      time.Time
}

// Inventory holds the artifacts found under a single tools directory.
// The scan happens once at construction; Refresh rescans on demand.
type Inventory struct {
	dir       string
	artifacts map[string]Artifact
	logger    *zap.Logger
}

// NewInventory scans dir for executable artifacts. A missing or empty
// directory is not an error; the inventory just matches nothing.
func NewInventory(dir string, logger *zap.Logger) *Inventory {
	inv := &Inventory{
		dir:       dir,
		artifacts: make(map[string]Artifact),
		logger:    logger.Named("tools"),
	}
	inv.Refresh()
	return inv
}

// Refresh rescans the tools directory, replacing the current registry.
func (inv *Inventory) Refresh() {
	artifacts := make(map[string]Artifact)

	entries, err := os.ReadDir(inv.dir)
	if err != nil {
		inv.logger.Debug("tools directory not readable, inventory empty",
			zap.String("dir", inv.dir), zap.Error(err))
		inv.artifacts = artifacts
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Mode()&0o111 == 0 {
			continue
		}
		name := artifactName(entry.Name())
		if strings.HasPrefix(name, "test_") {
			continue
		}
		path := filepath.Join(inv.dir, entry.Name())
		artifacts[name] = Artifact{
			Name:         name,
			Path:         path,
			Description:  readDescription(path),
			Capabilities: inferCapabilities(name),
			ModTime:      info.ModTime(),
		}
	}

	inv.artifacts = artifacts
	inv.logger.Debug("scanned tools directory",
		zap.String("dir", inv.dir), zap.Int("artifacts", len(artifacts)))
}

// Artifact returns the registered artifact by name.
func (inv *Inventory) Artifact(name string) (Artifact, bool) {
	a, ok := inv.artifacts[name]
	return a, ok
}

// Names lists registered artifact names in stable order.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.artifacts))
	for name := range inv.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a human-readable description for an artifact.
func (inv *Inventory) Describe(name string) string {
	if a, ok := inv.artifacts[name]; ok && a.Description != "" {
		return a.Description
	}
	return fmt.Sprintf("analysis artifact %s", name)
}

// artifactName strips the extension so scripts and compiled binaries
// register under the same identifier.
func artifactName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// readDescription pulls the first comment line after an optional shebang.
// Falls back to empty when the file has no leading comment.
func readDescription(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := 0; scanner.Scan() && i < 10; i++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#!") {
			continue
		}
		for _, marker := range []string{"#", "//", `"""`} {
			if strings.HasPrefix(line, marker) {
				desc := strings.TrimSpace(strings.TrimPrefix(line, marker))
				desc = strings.TrimSuffix(desc, `"""`)
				if desc != "" {
					return desc
				}
			}
		}
		return ""
	}
	return ""
}

// inferCapabilities derives coarse capability tags from the artifact name.
func inferCapabilities(name string) []string {
	lower := strings.ToLower(name)
	var caps []string
	for token, capability := range map[string]string{
		"engineering": "engineering",
		"finance":     "finance",
		"sales":       "sales",
		"marketing":   "marketing",
		"hr":          "human_resources",
		"analysis":    "analyze",
		"chart":       "visualize",
		"graph":       "visualize",
		"compare":     "compare",
		"vs":          "compare",
	} {
		if strings.Contains(lower, token) {
			caps = append(caps, capability)
		}
	}
	sort.Strings(caps)
	return caps
}
