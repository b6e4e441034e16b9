// Package importer implements the URL-to-knowledge-base job lifecycle:
// submit a conversion task, poll it to a terminal state, flatten its
// result document into text chunks, and upload the chunks into a
// collection with best-effort accounting.
package importer

// Options configures a single import. Provider IDs are opaque and passed
// through unchanged; empty strings are treated as absent and omitted from
// the wire payload. The server is authoritative for validating all values.
type Options struct {
	UseLLMRepair         bool
	UseClusteringSummary bool

	RepairProviderID    string
	SummarizeProviderID string
	EmbeddingProviderID string

	// ChunkSize and ChunkOverlap are nil when unset. They are forwarded to
	// chunk uploads only when positive (size) or non-negative (overlap).
	ChunkSize    *int
	ChunkOverlap *int
}

// payload builds the submission body for the given URL.
func (o Options) payload(url string) map[string]any {
	p := map[string]any{
		"url":                    url,
		"use_llm_repair":         o.UseLLMRepair,
		"use_clustering_summary": o.UseClusteringSummary,
	}
	if o.RepairProviderID != "" {
		p["repair_llm_provider_id"] = o.RepairProviderID
	}
	if o.SummarizeProviderID != "" {
		p["summarize_llm_provider_id"] = o.SummarizeProviderID
	}
	if o.EmbeddingProviderID != "" {
		p["embedding_provider_id"] = o.EmbeddingProviderID
	}
	if o.ChunkSize != nil {
		p["chunk_size"] = *o.ChunkSize
	}
	if o.ChunkOverlap != nil {
		p["chunk_overlap"] = *o.ChunkOverlap
	}
	return p
}
