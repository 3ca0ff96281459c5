package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt frames the model's role for every chunk call.
const SystemPrompt = "You are an expert healthcare insurance document parser. " +
	"Extract all relevant information accurately and return ONLY valid JSON."

// BuildChunkPrompt assembles the extraction prompt for one chunk: the fixed
// instruction block, the schema skeleton, positional context when the
// document was split, and the chunk text itself.
func BuildChunkPrompt(req ChunkRequest) string {
	schemaJSON, _ := json.MarshalIndent(SchemaSkeleton(), "", "  ")

	var chunkContext string
	if req.Total > 1 {
		chunkContext = fmt.Sprintf("This is chunk %d of %d from the document.", req.Index, req.Total)
	}

	var b strings.Builder
	b.WriteString("Extract structured information from this healthcare insurance document chunk and return it as JSON.\n\n")
	if chunkContext != "" {
		b.WriteString(chunkContext)
		b.WriteString("\n\n")
	}
	b.WriteString("**IMPORTANT:**\n")
	b.WriteString("1. Return ONLY valid JSON, no markdown, no explanations\n")
	b.WriteString("2. If information is not found, use null\n")
	b.WriteString("3. Extract ALL relevant information from this chunk\n")
	b.WriteString("4. Be precise with numbers, dates, and requirements\n\n")
	b.WriteString("**TARGET SCHEMA:**\n")
	b.Write(schemaJSON)
	b.WriteString("\n\n**DOCUMENT TEXT:**\n")
	b.WriteString(req.Text)
	b.WriteString("\n\nReturn extracted information as valid JSON:")
	return b.String()
}
