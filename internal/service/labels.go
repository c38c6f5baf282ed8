package service

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
)

const maxLabelLength = 50

// normalizeLabels trims every label, rejects blank or overlong ones and drops
// repeats by label key, keeping the first spelling seen.
func normalizeLabels(labels []string) ([]string, error) {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for i, raw := range labels {
		label := strings.TrimSpace(raw)
		if label == "" {
			return nil, apperrors.ValidationWithDetails("invalid tags", map[string]string{
				tagField(i): "is required",
			})
		}
		if utf8.RuneCountInString(label) > maxLabelLength {
			return nil, apperrors.ValidationWithDetails("invalid tags", map[string]string{
				tagField(i): "must not exceed 50 characters",
			})
		}
		key := db.LabelKey(label)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, label)
	}
	return out, nil
}

// filterKeys turns a tag filter into label keys. Blank entries are ignored.
func filterKeys(labels []string) []string {
	keys := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		k := db.LabelKey(l)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func tagField(i int) string {
	return "tags[" + strconv.Itoa(i) + "]"
}
