// Package ttl is the TTL diff & rewriter: a pure file-and-RDF
// component with no projection access. It versions environment snapshot
// files, rewrites exactly the one line a single mutation targets, diffs
// two snapshots at the RDF-triple level, and turns that diff into the
// SPARQL UPDATE text the SPARQL bridge applies. Grounded on
// original_source/agent/nodes/world_update.py's get_next_ttl_version /
// save_incremental_update_to_ttl / extract_changes_with_rdflib /
// generate_sparql_update, and on the Turtle subset
// original_source/ontology_server/data/envs/*/json_to_{static,dynamic}_ttl.py
// actually emit (a single default `:` namespace, one subject per
// unindented line optionally carrying its first predicate, every further
// predicate on its own 4-space-indented line, `;`/`.` statement
// punctuation, literals with an optional `^^prefix:datatype` or `@lang`
// suffix). internal/mangle's hand-written parseQueryShape is the
// teacher's precedent for a narrow regex/line parser over a fixed
// grammar rather than a general-purpose library; no third-party Turtle
// parser appears anywhere in the example pack, so parsing itself is
// standard-library only. The one exception is watch.go's optional
// directory watcher, which reuses github.com/fsnotify/fsnotify the way
// the teacher's own file watcher does.
package ttl

import (
	"fmt"
	"os"
	"path/filepath"
)

// NextVersion returns the smallest N >= 1 such that dir/baseName_N.ttl
// does not already exist on disk.
func NextVersion(dir, baseName string) (int, error) {
	for n := 1; ; n++ {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.ttl", baseName, n))
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			return n, nil
		}
		if err != nil {
			return 0, fmt.Errorf("ttl: stat %s: %w", path, err)
		}
	}
}
