package t2m

import "strings"

// splitSegments splits a reply into "key: value" segments.
// Segments without exactly one colon are dropped, as are segments with an empty key.
func splitSegments(text string) []segment {
	// Replies sometimes start with a UTF-8 BOM when read from files.
	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parts := strings.Split(text, ",")
	out := make([]segment, 0, len(parts))
	for _, part := range parts {
		kv := strings.Split(part, ":")
		if len(kv) != 2 {
			continue
		}

		key := strings.TrimSpace(kv[0])
		if key == "" {
			continue
		}

		out = append(out, segment{Key: key, Value: strings.TrimSpace(kv[1])})
	}

	return out
}
