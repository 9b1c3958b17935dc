package ports

import "context"

// ProseRequest describes the narrative wanted for a document. Facts are the
// already computed numbers; generators must not invent others.
type ProseRequest struct {
	Kind     string            `json:"kind"`
	Subject  string            `json:"subject"`
	Facts    map[string]string `json:"facts"`
	Sections []string          `json:"sections"`
}

type Paragraph struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type Prose struct {
	Paragraphs []Paragraph `json:"paragraphs"`
	Source     string      `json:"source"`
}

type ProseGenerator interface {
	Generate(ctx context.Context, req ProseRequest) (Prose, error)
}
