package schema

import (
	"strconv"
	"strings"
)

// NormalizeMentionStatus validates and lowercases a status filter value.
func NormalizeMentionStatus(value string) (MentionStatus, error) {
	trimmed := MentionStatus(strings.ToLower(strings.TrimSpace(value)))
	if trimmed == "" {
		return "", ErrInvalidStatus
	}
	for _, known := range KnownMentionStatuses {
		if trimmed == known {
			return trimmed, nil
		}
	}
	return "", ErrInvalidStatus
}

// ValidateMentionID ensures an id is non-empty and safe to place in a path.
func ValidateMentionID(id MentionID) error {
	raw := string(id)
	if raw == "" || strings.TrimSpace(raw) != raw {
		return ErrInvalidMentionID
	}
	if strings.ContainsAny(raw, "/?#% ") {
		return ErrInvalidMentionID
	}
	return nil
}

// ParsePolicyID parses a positive policy id.
func ParsePolicyID(value string) (PolicyID, error) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, ErrInvalidPolicyID
	}
	return PolicyID(id), nil
}
