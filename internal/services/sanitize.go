package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textSanitizer cleans author-supplied text before it is stored. Question bodies keep
// basic formatting markup; names and choice labels are reduced to plain text.
type textSanitizer struct {
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

func newTextSanitizer() *textSanitizer {
	return &textSanitizer{
		rich:  bluemonday.UGCPolicy(),
		plain: bluemonday.StrictPolicy(),
	}
}

func (s *textSanitizer) Rich(input string) string {
	return strings.TrimSpace(s.rich.Sanitize(input))
}

func (s *textSanitizer) Plain(input string) string {
	return strings.TrimSpace(s.plain.Sanitize(input))
}
