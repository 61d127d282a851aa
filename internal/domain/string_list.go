package domain

import (
	"encoding/json"
	"strings"
)

// StringList decodes from either a JSON array or a comma separated string.
// Entries are trimmed and empty entries dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = CleanList(list)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = SplitList(raw)
	return nil
}

// SplitList splits a comma separated string into trimmed, non-empty entries.
func SplitList(raw string) StringList {
	return CleanList(strings.Split(raw, ","))
}

func CleanList(items []string) StringList {
	out := StringList{}
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
