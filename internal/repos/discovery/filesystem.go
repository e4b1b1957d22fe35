package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

const (
	gitMetadataEntryNameConstant       = ".git"
	discoveryWalkErrorTemplateConstant = "failed to scan %s: %w"
)

// FilesystemRepositoryDiscoverer locates git repositories on disk.
type FilesystemRepositoryDiscoverer struct{}

// NewFilesystemRepositoryDiscoverer constructs a repository discoverer backed by filepath.WalkDir.
func NewFilesystemRepositoryDiscoverer() *FilesystemRepositoryDiscoverer {
	return &FilesystemRepositoryDiscoverer{}
}

// DiscoverRepositories walks the provided roots and returns every directory holding a .git entry.
// The result is deduplicated and sorted by path so merge order is stable across runs.
// Any filesystem error aborts the scan.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	repositories := []string{}

	for _, root := range roots {
		walkError := filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				return fmt.Errorf(discoveryWalkErrorTemplateConstant, path, walkError)
			}

			if directoryEntry.Name() != gitMetadataEntryNameConstant {
				return nil
			}

			repositoryPath := filepath.Dir(path)
			if _, alreadySeen := seen[repositoryPath]; !alreadySeen {
				seen[repositoryPath] = struct{}{}
				repositories = append(repositories, repositoryPath)
			}

			if directoryEntry.IsDir() {
				return fs.SkipDir
			}
			return nil
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	sort.Strings(repositories)
	return repositories, nil
}
