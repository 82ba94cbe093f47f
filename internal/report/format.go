package report

import (
	apperrors "depmap/internal/errors"
)

// Format is the closed set of report renderings. Keeping it a typed variant
// rather than a free-form string means every switch over it is checkable.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatMarkdown
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name to its Format. Unknown names fail with
// INVALID_ARGUMENT; this is the only failure mode report assembly has.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown":
		return FormatMarkdown, nil
	default:
		return 0, apperrors.Newf(apperrors.CodeInvalidArgument,
			"invalid format %q (valid: text, json, markdown)", name)
	}
}
