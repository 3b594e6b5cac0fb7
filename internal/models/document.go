package models

// Document is a unit of input: raw text or HTML and the URL it came from.
// URL is empty for content that was not fetched from the web.
type Document struct {
	URL     string
	Content string
}

// TextChunk is a token-bounded slice of a document, decoded back to text.
type TextChunk struct {
	Index  int
	Text   string
	Tokens []int
}

func (c TextChunk) TokenCount() int {
	return len(c.Tokens)
}

// QAPair is a question/answer record produced from one chunk.
type QAPair struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	SourceURL string `json:"url,omitempty"`
}

// EmbeddedQAPair is a QAPair with the embedding of its question.
type EmbeddedQAPair struct {
	QAPair
	Embedding []float32 `json:"embedding"`
}
