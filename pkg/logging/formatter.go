package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// TextFormatter renders entries as human-readable lines:
// timestamp [LEVEL] message | k=v k=v
type TextFormatter struct {
	TimestampFormat  string
	DisableTimestamp bool
}

// NewTextFormatter creates a text formatter with the default timestamp layout.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{TimestampFormat: "2006-01-02 15:04:05.000"}
}

// Format renders one entry.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer

	if !f.DisableTimestamp {
		buf.WriteString(entry.Timestamp.Format(f.TimestampFormat))
		buf.WriteByte(' ')
	}

	fmt.Fprintf(&buf, "[%s] %s", entry.Level, entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteString(" |")
		for _, k := range keys {
			fmt.Fprintf(&buf, " %s=%v", k, entry.Fields[k])
		}
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// JSONFormatter renders entries as one JSON object per line.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format renders one entry.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	record := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		if err, ok := v.(error); ok {
			record[k] = err.Error()
			continue
		}
		record[k] = v
	}
	record["time"] = entry.Timestamp
	record["level"] = entry.Level.String()
	record["message"] = entry.Message

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal log record: %w", err)
	}
	return append(data, '\n'), nil
}
