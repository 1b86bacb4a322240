package ttl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ontoplan/internal/logging"
)

// TtlRewriteAmbiguousError is returned by ApplyMove when the (predicate,
// old_target) pair does not appear exactly once within subject's block.
type TtlRewriteAmbiguousError struct {
	Subject, Predicate, OldTarget string
	Matches                       int
}

func (e *TtlRewriteAmbiguousError) Error() string {
	return fmt.Sprintf("ttl: %d matches for :%s :%s within %s's block (want exactly 1)",
		e.Matches, e.Predicate, e.OldTarget, e.Subject)
}

// ApplyMove copies prevPath to newPath with exactly one line rewritten:
// within subject's block, the line bearing predicate whose object is
// oldTarget has oldTarget replaced with newTarget. Grounded on
// world_update.py's save_incremental_update_to_ttl, generalized from the
// hardcoded robotIsInSpace/robot-block case to an arbitrary
// (subject, predicate) pair.
func ApplyMove(prevPath, newPath, subject, predicate, oldTarget, newTarget string) error {
	data, err := os.ReadFile(prevPath)
	if err != nil {
		return fmt.Errorf("ttl: read %s: %w", prevPath, err)
	}
	lines := strings.Split(string(data), "\n")

	needle := ":" + predicate
	target := ":" + oldTarget
	blockStart := -1

	for i, line := range lines {
		if blockStart == -1 {
			prev := ""
			if i > 0 {
				prev = lines[i-1]
			}
			if strings.Contains(line, ":"+subject) && (strings.Contains(line, "rdf:type") || strings.Contains(prev, "rdf:type")) {
				blockStart = i
			} else {
				continue
			}
		}

		trimmed := strings.TrimSpace(line)
		if !strings.HasSuffix(trimmed, ".") {
			continue
		}

		matchIdx, matchCount := -1, 0
		for j := blockStart; j <= i; j++ {
			if strings.Contains(lines[j], needle) && strings.Contains(lines[j], target) {
				matchCount++
				matchIdx = j
			}
		}
		if matchCount != 1 {
			return &TtlRewriteAmbiguousError{Subject: subject, Predicate: predicate, OldTarget: oldTarget, Matches: matchCount}
		}

		lines[matchIdx] = strings.Replace(lines[matchIdx], target, ":"+newTarget, 1)
		if err := writeLines(newPath, lines); err != nil {
			return err
		}
		logging.TTL("rewrote %s %s %s -> %s into %s", subject, predicate, oldTarget, newTarget, newPath)
		return nil
	}
	return fmt.Errorf("ttl: subject %s has no terminated block in %s", subject, prevPath)
}

func writeLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ttl: mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("ttl: write %s: %w", path, err)
	}
	return nil
}
