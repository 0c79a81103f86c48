package domain

import (
	"encoding/json"
	"strings"

	perr "tdsdesk/internal/platform/errors"
)

// Analysis is the oracle's reading of a customer message
type Analysis struct {
	Sentiment string `json:"sentimento"`
	Summary   string `json:"resumo"`
	Reply     string `json:"sugestao_de_resposta"`
}

// ParseAnalysis decodes oracle output, tolerating markdown code fences
func ParseAnalysis(raw string) (Analysis, error) {
	s := StripFences(raw)
	var a Analysis
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return Analysis{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "oracle returned malformed analysis")
	}
	if strings.TrimSpace(a.Sentiment) == "" && strings.TrimSpace(a.Summary) == "" {
		return Analysis{}, perr.Unavailablef("oracle returned an empty analysis")
	}
	return a, nil
}

// StripFences removes a surrounding ``` or ```json fence
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
