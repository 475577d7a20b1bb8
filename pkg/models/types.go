package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// Date is a calendar value accepted as "YYYY-MM-DD" or RFC 3339 and written back as
// RFC 3339. An empty string or null decodes to the zero Date, which encodes as null.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t.UTC()}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(time.RFC3339))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = Date{}
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewDate(t)
			return nil
		}
	}

	return fmt.Errorf("invalid date %q", s)
}

// SkillList decodes either a JSON array of strings or a single comma separated string.
// Entries are trimmed and empty entries are dropped.
type SkillList []string

func (s *SkillList) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = nil
		return nil
	}

	var raw []string
	if len(b) > 0 && b[0] == '[' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("skills must be a list of strings: %w", err)
		}
	} else {
		var joined string
		if err := json.Unmarshal(b, &joined); err != nil {
			return fmt.Errorf("skills must be a string or a list: %w", err)
		}
		raw = strings.Split(joined, ",")
	}

	out := make([]string, 0, len(raw))
	for _, skill := range raw {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	if len(out) == 0 {
		*s = nil
		return nil
	}

	*s = out
	return nil
}
