package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/linearapp/linear-mcp-server/pkg/inventory"
	"github.com/linearapp/linear-mcp-server/pkg/linear"
	"github.com/linearapp/linear-mcp-server/pkg/translations"
	"github.com/spf13/cobra"
)

var generateDocsCmd = &cobra.Command{
	Use:   "generate-docs",
	Short: "Generate documentation for tools and toolsets",
	Long:  `Generate the automated sections of README.md with current tool and toolset information.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return generateReadmeDocs("README.md")
	},
}

func init() {
	rootCmd.AddCommand(generateDocsCmd)
}

func generateReadmeDocs(readmePath string) error {
	t, _ := translations.TranslationHelper()

	inv := linear.DefaultInventory(t).WithToolsets([]string{"all"}).Build()

	toolsetsDoc := generateToolsetsDoc(inv)
	toolsDoc := generateToolsDoc(inv)

	// #nosec G304 - readmePath is controlled by the command, not user input
	content, err := os.ReadFile(readmePath)
	if err != nil {
		return fmt.Errorf("failed to read README.md: %w", err)
	}

	updatedContent, err := replaceSection(string(content), "START AUTOMATED TOOLSETS", "END AUTOMATED TOOLSETS", toolsetsDoc)
	if err != nil {
		return err
	}

	updatedContent, err = replaceSection(updatedContent, "START AUTOMATED TOOLS", "END AUTOMATED TOOLS", toolsDoc)
	if err != nil {
		return err
	}

	if err := os.WriteFile(readmePath, []byte(updatedContent), 0600); err != nil {
		return fmt.Errorf("failed to write README.md: %w", err)
	}

	fmt.Printf("Successfully updated %s with automated documentation\n", readmePath)
	return nil
}

func generateToolsetsDoc(inv *inventory.Inventory) string {
	var buf strings.Builder

	buf.WriteString("| Toolset | Description |\n")
	buf.WriteString("| ------- | ----------- |\n")

	descriptions := inv.ToolsetDescriptions()
	for _, id := range inv.ToolsetIDs() {
		fmt.Fprintf(&buf, "| `%s` | %s |\n", id, descriptions[id])
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

func generateToolsDoc(inv *inventory.Inventory) string {
	tools := inv.AvailableTools()
	if len(tools) == 0 {
		return ""
	}

	var buf strings.Builder
	var toolBuf strings.Builder
	var currentToolsetID inventory.ToolsetID
	firstSection := true

	writeSection := func() {
		if toolBuf.Len() == 0 {
			return
		}
		if !firstSection {
			buf.WriteString("\n\n")
		}
		firstSection = false
		sectionName := formatToolsetName(string(currentToolsetID))
		fmt.Fprintf(&buf, "<details>\n\n<summary>%s</summary>\n\n%s\n\n</details>", sectionName, strings.TrimSuffix(toolBuf.String(), "\n\n"))
		toolBuf.Reset()
	}

	for _, tool := range tools {
		if tool.Toolset.ID != currentToolsetID {
			writeSection()
			currentToolsetID = tool.Toolset.ID
		}
		writeToolDoc(&toolBuf, tool)
		toolBuf.WriteString("\n\n")
	}
	writeSection()

	return buf.String()
}

func writeToolDoc(buf *strings.Builder, tool inventory.ServerTool) {
	fmt.Fprintf(buf, "- **%s** - %s\n", tool.Tool.Name, tool.Tool.Annotations.Title)

	schema, ok := tool.Tool.InputSchema.(*jsonschema.Schema)
	if !ok || schema == nil || len(schema.Properties) == 0 {
		buf.WriteString("  - No parameters required")
		return
	}

	// Sort parameter names for deterministic output
	var paramNames []string
	for propName := range schema.Properties {
		paramNames = append(paramNames, propName)
	}
	sort.Strings(paramNames)

	for i, propName := range paramNames {
		prop := schema.Properties[propName]
		requiredStr := "optional"
		if contains(schema.Required, propName) {
			requiredStr = "required"
		}

		typeStr := prop.Type
		if prop.Type == "array" && prop.Items != nil {
			typeStr = prop.Items.Type + "[]"
		}

		fmt.Fprintf(buf, "  - `%s`: %s (%s, %s)", propName, prop.Description, typeStr, requiredStr)
		if i < len(paramNames)-1 {
			buf.WriteString("\n")
		}
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func replaceSection(content, startMarker, endMarker, newContent string) (string, error) {
	start := fmt.Sprintf("<!-- %s -->", startMarker)
	end := fmt.Sprintf("<!-- %s -->", endMarker)

	startIdx := strings.Index(content, start)
	if startIdx == -1 {
		return "", fmt.Errorf("start marker %q not found", start)
	}
	endIdx := strings.Index(content, end)
	if endIdx == -1 {
		return "", fmt.Errorf("end marker %q not found", end)
	}
	if endIdx < startIdx {
		return "", fmt.Errorf("end marker %q appears before start marker %q", end, start)
	}

	return content[:startIdx+len(start)] + "\n" + newContent + "\n" + content[endIdx:], nil
}
