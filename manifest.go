package vocdata

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// manifestPath returns <root>/ImageSets/Main/<split>.txt.
func manifestPath(root, split string) string {
	return filepath.Join(root, "ImageSets", "Main", split+".txt")
}

// readManifest loads the sample ids of a split, sorted. Duplicates are kept, blank lines are not.
func readManifest(fs afero.Fs, root, split string) ([]string, error) {
	lines, err := readLines(fs, manifestPath(root, split))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
