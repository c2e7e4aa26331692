// Package toolsnaps provides a snapshot check for tool schemas, so that
// unintended changes to a tool's surface are caught in review. Snapshots live
// in __toolsnaps__/<tool-name>.snap next to the tests that exercise them.
// Run tests with UPDATE_TOOLSNAPS=true to rewrite the snapshots after an
// intentional change.
package toolsnaps

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	jd "github.com/josephburnett/jd/lib"
)

// Test compares the given tool against its stored snapshot. When the
// snapshot is missing it is written, except in CI where a missing snapshot is
// an error (the snapshot should have been committed).
func Test(toolName string, tool any) error {
	toolJSON, err := json.MarshalIndent(tool, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tool %s: %w", toolName, err)
	}

	snapPath := filepath.Join("__toolsnaps__", fmt.Sprintf("%s.snap", toolName))

	if os.Getenv("UPDATE_TOOLSNAPS") == "true" {
		return writeSnap(snapPath, toolJSON)
	}

	snapJSON, err := os.ReadFile(snapPath) //nolint:gosec // snapshot paths are derived from tool names, not user input
	if os.IsNotExist(err) {
		// In CI a missing snapshot means the tool was added or renamed
		// without committing its snapshot.
		if os.Getenv("GITHUB_ACTIONS") == "true" {
			return fmt.Errorf("tool snapshot does not exist for %s; generate it locally and commit it", toolName)
		}
		return writeSnap(snapPath, toolJSON)
	} else if err != nil {
		return fmt.Errorf("failed to read snapshot for %s: %w", toolName, err)
	}

	snapNode, err := jd.ReadJsonString(string(snapJSON))
	if err != nil {
		return fmt.Errorf("failed to parse snapshot JSON for %s: %w", toolName, err)
	}

	toolNode, err := jd.ReadJsonString(string(toolJSON))
	if err != nil {
		return fmt.Errorf("failed to parse tool JSON for %s: %w", toolName, err)
	}

	if diff := snapNode.Diff(toolNode).Render(); diff != "" {
		return fmt.Errorf("tool schema for %s has changed unexpectedly:\n%s\nrun with UPDATE_TOOLSNAPS=true if this change is intentional", toolName, diff)
	}

	return nil
}

func writeSnap(snapPath string, contents []byte) error {
	sorted, err := sortJSONKeys(contents)
	if err != nil {
		return fmt.Errorf("failed to sort snapshot JSON: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(snapPath), 0o700); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if err := os.WriteFile(snapPath, sorted, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

// sortJSONKeys normalizes JSON so snapshots are stable across runs.
// encoding/json marshals map keys in sorted order, so a decode/encode round
// trip sorts every object recursively.
func sortJSONKeys(jsonBytes []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(jsonBytes, &v); err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}
