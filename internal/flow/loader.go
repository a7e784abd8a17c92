package flow

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MetaOverride carries optional per-flow metadata overrides from the server
// config file, keyed by relative path.
type MetaOverride struct {
	Title       string
	Description string
}

// FlowID derives the deterministic flow identifier (UUIDv5) from the flow
// file's relative path. The same folder layout always yields the same IDs,
// so clients can cache them across restarts.
func FlowID(relativePath string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("flowserve://"+relativePath)).String()
}

// LoadDirectory scans root for *.json flow files, parses each into a graph,
// and binds it to a computation produced by build. Files that fail to parse
// abort the load: a server hosting a broken catalog is worse than one that
// refuses to start.
func LoadDirectory(root string, build func(*Graph) Computation, overrides map[string]MetaOverride) ([]*Flow, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("flows directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("flows path %s is not a directory", root)
	}

	var flows []*Flow
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		graph, err := ParseGraph(raw)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		meta := Meta{
			ID:           FlowID(rel),
			RelativePath: rel,
			Title:        graph.Name,
			Description:  graph.Description,
		}
		if meta.Title == "" {
			meta.Title = strings.TrimSuffix(d.Name(), ".json")
		}
		if o, ok := overrides[rel]; ok {
			if o.Title != "" {
				meta.Title = o.Title
			}
			if o.Description != "" {
				meta.Description = o.Description
			}
		}

		flows = append(flows, &Flow{
			Meta:        meta,
			Graph:       graph,
			Computation: build(graph),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return flows, nil
}
