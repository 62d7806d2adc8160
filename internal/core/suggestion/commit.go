package suggestion

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxCommitMessageLength is the longest commit message the platform accepts.
const MaxCommitMessageLength = 375

const ellipsis = "..."

// CommitMessage builds the commit message recorded when a suggestion is
// resolved, e.g. `content section of "Intro" card` for content id
// "content_0" and state "Intro". The state name is shortened when the
// message would exceed limit characters. A limit <= 0 uses
// MaxCommitMessageLength.
func CommitMessage(contentID, stateName string, limit int) string {
	if limit <= 0 {
		limit = MaxCommitMessageLength
	}

	prefix, _, _ := strings.Cut(contentID, "_")
	msg := formatCommitMessage(prefix, stateName)
	if utf8.RuneCountInString(msg) <= limit {
		return msg
	}

	overhead := utf8.RuneCountInString(formatCommitMessage(prefix, "")) + len(ellipsis)
	keep := limit - overhead
	if keep <= 0 {
		return truncateRunes(msg, limit)
	}

	return formatCommitMessage(prefix, truncateRunes(stateName, keep)+ellipsis)
}

func formatCommitMessage(prefix, stateName string) string {
	return fmt.Sprintf("%s section of \"%s\" card", prefix, stateName)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
