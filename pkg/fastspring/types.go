package fastspring

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the paging envelope FastSpring attaches to list responses.
type Page struct {
	Action   string `json:"action,omitempty"   yaml:"action,omitempty"`
	Result   string `json:"result,omitempty"   yaml:"result,omitempty"`
	Page     int    `json:"page,omitempty"     yaml:"page,omitempty"`
	Limit    int    `json:"limit,omitempty"    yaml:"limit,omitempty"`
	NextPage *int   `json:"nextPage,omitempty" yaml:"nextPage,omitempty"`
	Total    int    `json:"total,omitempty"    yaml:"total,omitempty"`
	More     bool   `json:"more,omitempty"     yaml:"more,omitempty"`
}

// HasMore reports whether another page is available.
func (p Page) HasMore() bool {
	return (p.NextPage != nil && *p.NextPage > 0) || p.More
}

// ActionResult is the envelope returned by mutating endpoints.
type ActionResult struct {
	Action string                 `json:"action,omitempty" yaml:"action,omitempty"`
	Result string                 `json:"result,omitempty" yaml:"result,omitempty"`
	Error  map[string]interface{} `json:"error,omitempty"  yaml:"error,omitempty"`
}

// Succeeded reports whether FastSpring marked the action as successful.
func (r ActionResult) Succeeded() bool {
	return r.Result == "success"
}

// Price maps currency codes to amounts.
type Price map[string]float64

// Display maps language codes to localized text.
type Display map[string]string

// Ref is an entry of a list that FastSpring returns either as a bare id or as
// a full object, depending on the query.
type Ref[T any] struct {
	ID     string
	Object *T
}

// UnmarshalJSON accepts a JSON string or object.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &r.ID)
	}

	var obj T

	err := json.Unmarshal(trimmed, &obj)
	if err != nil {
		return fmt.Errorf("decoding list entry: %w", err)
	}

	r.Object = &obj

	if identified, ok := any(&obj).(interface{ Identifier() string }); ok {
		r.ID = identified.Identifier()
	}

	return nil
}

// MarshalJSON writes the object when present and the id otherwise.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Object != nil {
		return json.Marshal(r.Object)
	}

	return json.Marshal(r.ID)
}
