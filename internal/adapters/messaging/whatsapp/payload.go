package whatsapp

import (
	"encoding/json"
	"sort"
	"strings"

	perr "tdsdesk/internal/platform/errors"
)

// TextMessage is one inbound customer text
type TextMessage struct {
	From string
	ID   string
	Body string
}

// Skipped is an inbound message the desk does not answer
type Skipped struct {
	ID   string
	Type string
}

// Inbound is what a webhook delivery carries
type Inbound struct {
	Texts    []TextMessage
	Skipped  []Skipped
	Statuses int
}

type webhook struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	ID      string   `json:"id"`
	Changes []change `json:"changes"`
}

type change struct {
	Field string `json:"field"`
	Value value  `json:"value"`
}

type value struct {
	Messages []message        `json:"messages"`
	Statuses []map[string]any `json:"statuses"`
}

type message struct {
	From string    `json:"from"`
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Text *textBody `json:"text"`
}

// Parse decodes a webhook delivery
// undecodable JSON or a body without entries is an ErrorCodeJSON error
func Parse(b []byte) (Inbound, error) {
	var w webhook
	if err := json.Unmarshal(b, &w); err != nil {
		return Inbound{}, perr.Wrap(err, perr.ErrorCodeJSON, "whatsapp: undecodable payload")
	}
	if w.Entry == nil {
		return Inbound{}, perr.JSONErrf("whatsapp: payload has no entry")
	}

	var in Inbound
	for _, e := range w.Entry {
		for _, c := range e.Changes {
			in.Statuses += len(c.Value.Statuses)
			for _, m := range c.Value.Messages {
				body := ""
				if m.Text != nil {
					body = strings.TrimSpace(m.Text.Body)
				}
				if m.Type == "text" && m.From != "" && m.ID != "" && body != "" {
					in.Texts = append(in.Texts, TextMessage{From: m.From, ID: m.ID, Body: body})
					continue
				}
				in.Skipped = append(in.Skipped, Skipped{ID: m.ID, Type: m.Type})
			}
		}
	}
	return in, nil
}

// TopKeys lists the top level keys of a JSON object for diagnostics; nil when b is not an object
func TopKeys(b []byte) []string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
