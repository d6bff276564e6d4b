// Package docx loads Word templates and renders a data context into
// them. Templates use {tag} placeholders and {#list}...{/list} row
// loops inside the document XML; unresolved tags and unterminated
// loops surface as errors so broken templates fail loudly instead of
// shipping half-filled documents.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Render substitutes the context into every word/*.xml part of the
// template and returns the rebuilt document bytes.
func Render(template []byte, data map[string]interface{}) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("open template archive: %w", err)
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("read template part %s: %w", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read template part %s: %w", file.Name, err)
		}

		if strings.HasPrefix(file.Name, "word/") && strings.HasSuffix(file.Name, ".xml") {
			rendered, err := renderText(string(content), data)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", file.Name, err)
			}
			content = []byte(rendered)
		}

		w, err := writer.Create(file.Name)
		if err != nil {
			return nil, fmt.Errorf("write output part %s: %w", file.Name, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("write output part %s: %w", file.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize output archive: %w", err)
	}
	return buf.Bytes(), nil
}

// renderText expands loops first, then scalar tags. Any tag left
// unresolved after both passes is an error.
func renderText(text string, data map[string]interface{}) (string, error) {
	expanded, err := expandLoops(text, data)
	if err != nil {
		return "", err
	}

	out, unresolved := substituteTags(expanded, data, nil)
	if len(unresolved) > 0 {
		names := make([]string, 0, len(unresolved))
		for name := range unresolved {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", fmt.Errorf("unresolved template tags: %s", strings.Join(names, ", "))
	}
	return out, nil
}

// expandLoops replaces each {#name}...{/name} section with one copy of
// its body per row of the named list, with row keys substituted. A
// close marker left over once every loop is expanded has no opening
// tag and is an error.
func expandLoops(text string, data map[string]interface{}) (string, error) {
	for {
		open := strings.Index(text, "{#")
		if open < 0 {
			if stray := strings.Index(text, "{/"); stray >= 0 {
				name := text[stray+2:]
				if end := strings.Index(name, "}"); end >= 0 {
					name = name[:end]
				}
				return "", fmt.Errorf("loop %q has a closing tag but no opening tag", name)
			}
			return text, nil
		}
		nameEnd := strings.Index(text[open:], "}")
		if nameEnd < 0 {
			return "", fmt.Errorf("malformed loop tag at offset %d", open)
		}
		name := text[open+2 : open+nameEnd]

		closeTag := "{/" + name + "}"
		closeIdx := strings.Index(text, closeTag)
		if closeIdx < 0 || closeIdx < open {
			return "", fmt.Errorf("loop %q has no closing tag", name)
		}

		body := text[open+nameEnd+1 : closeIdx]
		rows, err := loopRows(data[name], name)
		if err != nil {
			return "", err
		}

		var repeated strings.Builder
		for _, row := range rows {
			// Tags the row does not resolve stay in place for the
			// document-level pass.
			rendered, _ := substituteTags(body, data, row)
			repeated.WriteString(rendered)
		}

		text = text[:open] + repeated.String() + text[closeIdx+len(closeTag):]
	}
}

func loopRows(value interface{}, name string) ([]map[string]string, error) {
	switch rows := value.(type) {
	case nil:
		return nil, fmt.Errorf("loop %q refers to an unknown list", name)
	case []map[string]string:
		return rows, nil
	default:
		return nil, fmt.Errorf("loop %q does not refer to a list", name)
	}
}

// substituteTags replaces {tag} occurrences from row (when given) then
// from data, returning the result and the set of tags neither scope
// resolved. Loop markers are never treated as scalar tags.
func substituteTags(text string, data map[string]interface{}, row map[string]string) (string, map[string]bool) {
	var out strings.Builder
	unresolved := map[string]bool{}

	for {
		open := strings.Index(text, "{")
		if open < 0 {
			out.WriteString(text)
			break
		}
		closeIdx := strings.Index(text[open:], "}")
		if closeIdx < 0 {
			out.WriteString(text)
			break
		}

		tag := text[open+1 : open+closeIdx]
		out.WriteString(text[:open])

		switch {
		case strings.HasPrefix(tag, "#") || strings.HasPrefix(tag, "/"):
			// Loop markers are handled by expandLoops; inside a row
			// pass they are left in place.
			out.WriteString(text[open : open+closeIdx+1])
		case row != nil:
			if v, ok := row[tag]; ok {
				out.WriteString(xmlValue.Replace(v))
			} else {
				// Defer to the document-level scope.
				out.WriteString(text[open : open+closeIdx+1])
			}
		default:
			if v, ok := data[tag]; ok {
				out.WriteString(xmlValue.Replace(formatValue(v)))
			} else {
				unresolved[tag] = true
				out.WriteString(text[open : open+closeIdx+1])
			}
		}

		text = text[open+closeIdx+1:]
	}

	return out.String(), unresolved
}

// xmlValue escapes markup metacharacters in substituted values so free
// text cannot break the document XML; embedded newlines become Word
// line breaks.
var xmlValue = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\n", "<w:br/>",
)

func formatValue(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		if value {
			return "Yes"
		}
		return "No"
	case time.Time:
		return value.Format("02-01-2006")
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}
