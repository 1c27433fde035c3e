package domain

import "strings"

// ContentType enumerates the content kinds a status can be attached to.
type ContentType string

const (
	ContentClaim       ContentType = "claim"
	ContentVideo       ContentType = "video"
	ContentJourneyStep ContentType = "journey_step"
)

// ParseContentType accepts the canonical names plus the hyphenated form used by the web app.
func ParseContentType(raw string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "claim":
		return ContentClaim, nil
	case "video":
		return ContentVideo, nil
	case "journey_step", "journey-step", "step":
		return ContentJourneyStep, nil
	}
	return "", ErrInvalidContentType
}

// ContentStatus is the per-item user status.
type ContentStatus string

const (
	StatusViewed ContentStatus = "viewed"
	StatusLater  ContentStatus = "later"
	StatusSkip   ContentStatus = "skip"
)

// ParseContentStatus accepts "saved" as an alias of later.
func ParseContentStatus(raw string) (ContentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "viewed":
		return StatusViewed, nil
	case "later", "saved":
		return StatusLater, nil
	case "skip", "skipped":
		return StatusSkip, nil
	}
	return "", ErrInvalidStatus
}
