package extract

import (
	"io"

	"code.sajari.com/docconv"
)

// DocconvExtractor implements WordExtractor on top of the docconv library,
// which walks the word-processor document structure and returns raw text.
type DocconvExtractor struct{}

var _ WordExtractor = DocconvExtractor{}

func (DocconvExtractor) ExtractDocx(r io.Reader) (string, map[string]string, error) {
	return docconv.ConvertDocx(r)
}

func (DocconvExtractor) ExtractDoc(r io.Reader) (string, map[string]string, error) {
	return docconv.ConvertDoc(r)
}
