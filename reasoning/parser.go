package reasoning

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// fencePattern matches a reply that is entirely one fenced block.
var fencePattern = regexp.MustCompile("(?s)^```(?:json|JSON)?\\s*(.*?)\\s*```$")

var errNoJSON = errors.New("no JSON value found in model output")

// ParseRecords extracts structured records from model text.
//
// Text that starts with a JSON value is decoded as is, so code fences inside
// string values survive. Otherwise the JSON may be wrapped in a markdown code
// fence or surrounded by prose. A single object becomes a one-element slice.
// An object without a title whose only field is an array (for example
// {"steps": [...]}, which JSON-object output modes tend to produce) is
// unwrapped to that array. Array elements that are not objects are reported
// as a *ProtocolViolation.
func ParseRecords(text string) ([]Record, error) {
	body := strings.TrimSpace(text)
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		if raw, err := decodeFirst(body); err == nil {
			return interpret(raw)
		}
	}

	if m := fencePattern.FindStringSubmatch(body); m != nil {
		body = m[1]
	}

	start := strings.IndexAny(body, "{[")
	if start < 0 {
		return nil, errNoJSON
	}

	raw, err := decodeFirst(body[start:])
	if err != nil {
		return nil, fmt.Errorf("failed to parse model output as JSON: %w", err)
	}
	return interpret(raw)
}

// decodeFirst reads the first JSON value of s and ignores anything after it.
func decodeFirst(s string) (json.RawMessage, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func interpret(raw json.RawMessage) ([]Record, error) {
	if raw[0] == '[' {
		return parseArray(raw)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse model output as JSON object: %w", err)
	}
	if wrapped, ok := unwrapStepList(rec); ok {
		return parseArray(wrapped)
	}
	return []Record{rec}, nil
}

func parseArray(raw json.RawMessage) ([]Record, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("failed to parse model output as JSON array: %w", err)
	}

	records := make([]Record, 0, len(elems))
	for i, elem := range elems {
		if len(elem) == 0 || elem[0] != '{' {
			return nil, &ProtocolViolation{Index: i, Reason: "is not an object"}
		}
		var rec Record
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse model output element %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func unwrapStepList(rec Record) (json.RawMessage, bool) {
	if _, ok := rec["title"]; ok || len(rec) != 1 {
		return nil, false
	}
	for _, v := range rec {
		list, ok := v.([]any)
		if !ok || len(list) == 0 {
			return nil, false
		}
		raw, err := json.Marshal(list)
		if err != nil {
			return nil, false
		}
		return raw, true
	}
	return nil, false
}
