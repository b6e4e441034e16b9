package importer

import (
	"encoding/json"
	"fmt"
)

// ResultDocument is the payload attached to a completed conversion task.
// All three sections are independently optional; an empty document is a
// valid result.
type ResultDocument struct {
	OverallSummary string       `json:"overall_summary"`
	Topics         []Topic      `json:"topics"`
	NoisePoints    []NoisePoint `json:"noise_points"`
}

// Topic is one clustered topic with its optional summary.
type Topic struct {
	ID      TopicID `json:"topic_id"`
	Summary string  `json:"topic_summary"`
}

// TopicID is decoded from either a JSON number or a string.
type TopicID string

func (id *TopicID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = TopicID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("topic_id: expected string or number, got %s", data)
	}
	*id = TopicID(n.String())
	return nil
}

// NoisePoint is decoded from either a bare string or an object carrying a
// text field. An object without text yields empty Text and is skipped
// during flattening.
type NoisePoint struct {
	Text string
}

func (n *NoisePoint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n.Text = s
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("noise point: expected string or object: %w", err)
	}
	n.Text = obj.Text
	return nil
}

// ContentUnit is one named text artifact to upload into a collection.
type ContentUnit struct {
	Content  string
	Filename string
}

// ParseResult decodes a completed task's result payload. A missing or
// null result is valid and yields an empty document.
func ParseResult(raw json.RawMessage) (ResultDocument, error) {
	var doc ResultDocument
	if len(raw) == 0 || string(raw) == "null" {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode task result: %w", err)
	}
	return doc, nil
}

// Flatten converts a result document into its ordered uploadable units:
// the overall summary first, then topic summaries in document order, then
// noise points in document order. Empty pieces contribute nothing; noise
// point filenames keep their 1-based position in the original sequence.
func Flatten(doc ResultDocument) []ContentUnit {
	var units []ContentUnit

	if doc.OverallSummary != "" {
		units = append(units, ContentUnit{
			Content:  doc.OverallSummary,
			Filename: "overall_summary.txt",
		})
	}
	for _, t := range doc.Topics {
		if t.Summary == "" {
			continue
		}
		units = append(units, ContentUnit{
			Content:  t.Summary,
			Filename: fmt.Sprintf("topic_%s_summary.txt", t.ID),
		})
	}
	for i, np := range doc.NoisePoints {
		if np.Text == "" {
			continue
		}
		units = append(units, ContentUnit{
			Content:  np.Text,
			Filename: fmt.Sprintf("noise_%d.txt", i+1),
		})
	}
	return units
}

// FailureReason extracts the server-reported reason from a failed task's
// result field.
func FailureReason(raw json.RawMessage) string {
	var reason string
	if err := json.Unmarshal(raw, &reason); err == nil && reason != "" {
		return reason
	}
	return "unknown reason"
}
