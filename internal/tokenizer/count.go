package tokenizer

import (
	"errors"

	"github.com/temirov/dirtree/internal/utils"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountLines estimates tokens for lines joined by utils.JoinLines, the same
// text that is written and copied.
func CountLines(counter Counter, lines []string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	if len(lines) == 0 {
		return 0, nil
	}
	return counter.CountString(utils.JoinLines(lines))
}
