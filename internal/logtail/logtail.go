package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Read returns at most maxLines lines from the end of the file at path,
// keeping only lines for which keep returns true. A nil keep keeps every line.
// A missing file yields no lines.
func Read(path string, maxLines int, keep func(string) bool) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if keep != nil && !keep(line) {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Session keeps lines that carry the given session id.
func Session(id string) func(string) bool {
	needle := "session=" + id
	return func(line string) bool {
		return id == "" || strings.Contains(line, needle)
	}
}

// Attr is one key=value pair of a log record.
type Attr struct {
	Key   string
	Value string
}

// Record is a parsed slog text line.
type Record struct {
	Time    string
	Level   string
	Message string
	Attrs   []Attr
}

// Parse splits a line written by slog's text handler into its fields. Lines
// that are not key=value records come back with the whole line as Message.
func Parse(line string) Record {
	var rec Record
	rest := strings.TrimSpace(line)
	parsed := false
	for rest != "" {
		key, value, tail, ok := nextPair(rest)
		if !ok {
			break
		}
		parsed = true
		switch key {
		case "time":
			rec.Time = value
		case "level":
			rec.Level = value
		case "msg":
			rec.Message = value
		default:
			rec.Attrs = append(rec.Attrs, Attr{Key: key, Value: value})
		}
		rest = strings.TrimLeft(tail, " ")
	}
	if !parsed || rest != "" {
		return Record{Message: line}
	}
	return rec
}

func nextPair(s string) (key, value, rest string, ok bool) {
	eq := strings.IndexByte(s, '=')
	if eq <= 0 || strings.ContainsAny(s[:eq], " \"") {
		return "", "", "", false
	}
	key, s = s[:eq], s[eq+1:]
	if strings.HasPrefix(s, `"`) {
		end := closingQuote(s)
		if end < 0 {
			return "", "", "", false
		}
		unquoted, err := strconv.Unquote(s[:end+1])
		if err != nil {
			return "", "", "", false
		}
		return key, unquoted, s[end+1:], true
	}
	if sp := strings.IndexByte(s, ' '); sp >= 0 {
		return key, s[:sp], s[sp:], true
	}
	return key, s, "", true
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
