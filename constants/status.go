package constants

// DocStatus is the canonical per-document outcome recorded in a batch summary.
type DocStatus string

// Stable values (these exact strings appear in the summary artifact).
const (
	DocStatusSuccess DocStatus = "success"
	DocStatusFailed  DocStatus = "failed"
)

// Extraction method tags recorded in the _metadata block of a merged record.
const (
	MethodChunked = "groq_llm_chunked" // document split into multiple chunks
	MethodSingle  = "groq_llm"         // document fit in one chunk
)
