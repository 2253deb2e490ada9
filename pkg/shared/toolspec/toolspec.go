package toolspec

// Shared tool schema definitions used by the tool framework and the CLI.

const (
	PptxReadName        = "pptx_read"
	PptxReadDescription = "Extract plain text from a PowerPoint (PPTX) file in the workspace. " +
		"Returns all readable text from all slides, separated by slide markers. " +
		"Useful for analyzing presentations without manual copy-paste."

	PptxDefaultMaxChars = 50_000
	PptxMaxCharsCeiling = 200_000
)

// PptxReadAliases are alternative names accepted for the pptx_read tool.
var PptxReadAliases = []string{"read_pptx", "pptx"}

// PptxReadSchema returns the JSON schema for the pptx_read tool.
func PptxReadSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the PPTX file. Relative paths resolve from workspace; outside paths require policy allowlist.",
			},
			"max_chars": map[string]any{
				"type":        "integer",
				"description": "Maximum characters to return (default: 50000, max: 200000)",
				"minimum":     1,
				"maximum":     PptxMaxCharsCeiling,
			},
		},
		"required": []string{"path"},
	}
}
