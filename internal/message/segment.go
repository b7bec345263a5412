package message

import (
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/pkordes/mealmate/internal/domain"
)

// Segment splits text into consecutive chunks of at most maxLen characters
// (Unicode code points). Chunks are never empty and concatenate back to text.
//
// Breaks fall between grapheme clusters, so combining marks and emoji
// sequences stay together, unless one cluster alone is longer than maxLen;
// such a cluster is split between code points. A UTF-8 sequence is never cut.
// Empty text yields no segments.
func Segment(text string, maxLen int) ([]string, error) {
	if maxLen < 1 {
		return nil, fmt.Errorf("%w: segment length must be at least 1, got %d", domain.ErrValidation, maxLen)
	}

	segments := []string{}
	start, end, count := 0, 0, 0
	flush := func() {
		if end > start {
			segments = append(segments, text[start:end])
		}
		start, count = end, 0
	}

	rest := text
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		n := utf8.RuneCountInString(cluster)

		if n > maxLen {
			// Oversized cluster: close the current chunk, then cut the
			// cluster itself on code point boundaries.
			flush()
			for c := cluster; len(c) > 0; {
				_, size := utf8.DecodeRuneInString(c)
				if count == maxLen {
					flush()
				}
				end += size
				count++
				c = c[size:]
			}
			continue
		}

		if count+n > maxLen {
			flush()
		}
		end += len(cluster)
		count += n
	}
	flush()
	return segments, nil
}
