package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedLine строка без разделителя ':' или с пустой меткой
var ErrMalformedLine = errors.New("malformed label:value line")

// LineError указывает на строку, которую не удалось разобрать
type LineError struct {
	Line int
	Text string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, ErrMalformedLine)
}

func (e *LineError) Unwrap() error { return ErrMalformedLine }

// ParseLabelValues разбирает текст по строкам "метка: значение".
// Пустые строки пропускаются, значение может содержать ':' и быть пустым.
func ParseLabelValues(text string) ([]LabelValue, error) {
	out := make([]LabelValue, 0)
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		label, value, ok := strings.Cut(line, ":")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, &LineError{Line: i + 1, Text: line}
		}
		out = append(out, LabelValue{Label: label, Value: strings.TrimSpace(value)})
	}
	return out, nil
}

// DecodeLabelValues принимает либо JSON-массив, либо текст построчно
func DecodeLabelValues(raw string) ([]LabelValue, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		var out []LabelValue
		if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
			return nil, err
		}
		for i, lv := range out {
			if strings.TrimSpace(lv.Label) == "" {
				return nil, &LineError{Line: i + 1, Text: lv.Value}
			}
		}
		return out, nil
	}
	return ParseLabelValues(raw)
}
