package toolspec

import "testing"

func TestPptxReadSchemaRequiresPath(t *testing.T) {
	schema := PptxReadSchema()
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("pptx_read schema properties missing")
	}
	if _, ok := props["path"]; !ok {
		t.Fatalf("expected pptx_read schema to include path property")
	}
	maxChars, ok := props["max_chars"].(map[string]any)
	if !ok {
		t.Fatalf("expected pptx_read schema to include max_chars property")
	}
	if maxChars["maximum"] != PptxMaxCharsCeiling {
		t.Fatalf("unexpected max_chars maximum: %v", maxChars["maximum"])
	}
	required, ok := schema["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "path" {
		t.Fatalf("unexpected required list: %v", schema["required"])
	}
}
