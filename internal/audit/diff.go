// Package audit строит записи журнала действий из запросов, изменяющих данные.
package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const noChanges = "No changes detected"

// Changes сравнивает снимок before с телом запроса after.
// Рассматриваются только ключи after; вложенные объекты обходятся рекурсивно,
// массивы сравниваются целиком по JSON-представлению.
// Строка результата: field: "old" → "new".
func Changes(before, after map[string]any) []string {
	return changes(before, after, "")
}

func changes(before, after map[string]any, prefix string) []string {
	keys := make([]string, 0, len(after))
	for k := range after {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		oldVal, present := before[k]
		newVal := after[k]

		switch nv := newVal.(type) {
		case map[string]any:
			ov, _ := oldVal.(map[string]any)
			out = append(out, changes(ov, nv, full)...)
		case []any:
			o, n := jsonText(oldVal, present), jsonText(nv, true)
			if o != n {
				out = append(out, line(full, o, n))
			}
		default:
			o, n := scalarText(oldVal, present), scalarText(nv, true)
			if o != n {
				out = append(out, line(full, o, n))
			}
		}
	}
	return out
}

// Summary склеивает изменения через запятую
func Summary(changes []string) string {
	if len(changes) == 0 {
		return noChanges
	}
	return strings.Join(changes, ", ")
}

// Normalize приводит значение к дереву map/[]any/float64/string/bool через JSON
func Normalize(v any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("normalize %T: %w", v, err)
	}
	return out, nil
}

func line(field, from, to string) string {
	return fmt.Sprintf("%s: \"%s\" → \"%s\"", field, from, to)
}

func jsonText(v any, present bool) string {
	if !present {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func scalarText(v any, present bool) string {
	if !present || v == nil {
		return "null"
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	}
	return jsonText(v, true)
}
