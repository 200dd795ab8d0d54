// Package scan turns raw QR payloads into question identities and gates
// scans against the active turn.
package scan

import (
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
)

// Physical cards encode their question in several shapes: a compact JSON
// object, a bare number, a deep link like bridgetime://question?questionId=43,
// or free text carrying questionId=43. Parsing tries each shape in a fixed
// order and never fails; an unrecognized payload simply yields no match.

var (
	digitsRE   = regexp.MustCompile(`^\d+$`)
	cardIDRE   = regexp.MustCompile(`(?i)card_(\d+)`)
	freeTextRE = regexp.MustCompile(`(?i)questionId\s*=\s*(\d+)`)
)

// qrPayload is the JSON shape printed on the card deck. questionId may be a
// digit string or a number; id may be a digit string or a card_NNN slug.
type qrPayload struct {
	QuestionID any    `json:"questionId"`
	ID         string `json:"id"`
	TimePeriod string `json:"timePeriod"`
}

// ParseQuestionID extracts a normalized question id from a raw scanned
// string. The second return value is false when no shape matches.
func ParseQuestionID(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if id, ok := questionIDFromJSON(trimmed); ok {
		return id, true
	}

	if digitsRE.MatchString(trimmed) {
		return trimmed, true
	}

	if id, ok := questionIDFromURL(trimmed); ok {
		return id, true
	}

	if m := freeTextRE.FindStringSubmatch(trimmed); m != nil {
		return m[1], true
	}

	return "", false
}

func questionIDFromJSON(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return "", false
	}
	var payload qrPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		// Malformed JSON is not an error, just not a JSON payload.
		return "", false
	}

	switch v := payload.QuestionID.(type) {
	case string:
		if s := strings.TrimSpace(v); digitsRE.MatchString(s) {
			return s, true
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}

	if id := strings.TrimSpace(payload.ID); id != "" {
		if digitsRE.MatchString(id) {
			return id, true
		}
		if m := cardIDRE.FindStringSubmatch(id); m != nil {
			// card_007 identifies question 7: drop leading zeros.
			if n, err := strconv.Atoi(m[1]); err == nil {
				return strconv.Itoa(n), true
			}
		}
	}

	return "", false
}

func questionIDFromURL(trimmed string) (string, bool) {
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" {
		return "", false
	}
	q := strings.TrimSpace(u.Query().Get("questionId"))
	if digitsRE.MatchString(q) {
		return q, true
	}
	return "", false
}

// ParseTimePeriod extracts an explicit era from the raw payload: a JSON
// timePeriod field or a timePeriod query parameter, with values exactly
// "past" or "present". Anything else yields no match and the caller falls
// back to numeric inference.
func ParseTimePeriod(raw string) (bridgetime.TimePeriod, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var payload qrPayload
		if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
			if p := bridgetime.TimePeriod(payload.TimePeriod); p.Valid() {
				return p, true
			}
		}
	}

	if u, err := url.Parse(trimmed); err == nil && u.Scheme != "" {
		if p := bridgetime.TimePeriod(u.Query().Get("timePeriod")); p.Valid() {
			return p, true
		}
	}

	return "", false
}

// InferTimePeriod maps a numeric question id to its era. The first print run
// is 25 cards split between the eras: 1-12 past, 13-25 present. Numbers past
// the print run default to present. Non-digit or non-positive input yields
// no match.
func InferTimePeriod(questionID string) (bridgetime.TimePeriod, bool) {
	trimmed := strings.TrimSpace(questionID)
	if !digitsRE.MatchString(trimmed) {
		return "", false
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		// Digit strings too long for an int are card numbers far past
		// the print run.
		if errors.Is(err, strconv.ErrRange) {
			return bridgetime.Present, true
		}
		return "", false
	}
	if n <= 0 {
		return "", false
	}
	if n <= 12 {
		return bridgetime.Past, true
	}
	return bridgetime.Present, true
}
