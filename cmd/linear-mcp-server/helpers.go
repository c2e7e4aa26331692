package main

import "strings"

// formatToolsetName converts a toolset ID to a human-readable name.
func formatToolsetName(name string) string {
	switch name {
	case "issues":
		return "Issues"
	case "context":
		return "Context"
	default:
		// Fallback: capitalize first letter and replace underscores with spaces
		parts := strings.Split(name, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(string(part[0])) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}
