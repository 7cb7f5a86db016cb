// Package chatlog reconstructs logical messages from raw line-oriented chat
// export text.
package chatlog

import (
	"bufio"
	"regexp"
	"strings"

	"ghostfund/internal/core"
)

// messageStartPattern matches the "DATE, TIME - REST" prefix that opens a new
// message. Every other line is a continuation of the message before it.
var messageStartPattern = regexp.MustCompile(
	`(?i)^(\d{1,2}/\d{1,2}/\d{2}),\s+(\d{1,2}:\d{2}\s*[AP]M) - (.*)$`,
)

const (
	narrowNoBreakSpace = " "
	leftToRightMark    = "‎"
	utf8BOM            = "\ufeff"
)

// Parse tokenizes a full chat export into ordered messages. The whole text
// must be available; the result is a pure function of the input.
func Parse(text string) []core.Message {
	text = strings.TrimPrefix(text, utf8BOM)

	var (
		messages []core.Message
		current  *core.Message
	)

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := cleanLine(sc.Text())

		m := messageStartPattern.FindStringSubmatch(line)
		if m == nil {
			if current != nil {
				current.Text += " " + strings.TrimSpace(line)
			}
			continue
		}

		if current != nil {
			messages = append(messages, *current)
		}

		rest := m[3]
		msg := core.Message{
			Date: strings.TrimSpace(m[1]),
			Time: strings.ToUpper(strings.TrimSpace(m[2])),
		}
		if i := strings.Index(rest, ": "); i >= 0 {
			msg.Sender = strings.TrimSpace(rest[:i])
			msg.Text = strings.TrimSpace(rest[i+2:])
		} else {
			msg.Text = strings.TrimSpace(rest)
		}
		current = &msg
	}

	if current != nil {
		messages = append(messages, *current)
	}
	return messages
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, "\r")
	line = strings.ReplaceAll(line, narrowNoBreakSpace, " ")
	return strings.ReplaceAll(line, leftToRightMark, "")
}
