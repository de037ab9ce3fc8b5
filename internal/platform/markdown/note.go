package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

var ErrUnterminatedFrontmatter = errors.New("frontmatter has no closing ---")

// SplitFrontmatter separates the YAML header of a note from its body. Notes
// edited on Windows are accepted: CRLF line endings and a leading BOM are
// normalised first. A note without a header yields an empty map.
func SplitFrontmatter(content string) (map[string]any, string, error) {
	content = strings.TrimPrefix(content, "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return map[string]any{}, content, nil
	}
	rest := content[len(fence)+1:]

	var raw, body string
	switch idx := strings.Index(rest, "\n"+fence+"\n"); {
	case idx >= 0:
		raw, body = rest[:idx], rest[idx+len(fence)+2:]
	case strings.HasSuffix(rest, "\n"+fence):
		raw = strings.TrimSuffix(rest, "\n"+fence)
	case strings.HasPrefix(rest, fence+"\n") || rest == fence:
		body = strings.TrimPrefix(strings.TrimPrefix(rest, fence), "\n")
	default:
		return nil, "", ErrUnterminatedFrontmatter
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return meta, body, nil
}

// RenderFrontmatter writes meta as a YAML header followed by a blank line and
// body.
func RenderFrontmatter(meta map[string]any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	buf.Write(raw)
	buf.WriteString(fence + "\n")
	if !strings.HasPrefix(body, "\n") {
		buf.WriteByte('\n')
	}
	buf.WriteString(body)
	return buf.String(), nil
}

// ReplaceManagedBlock swaps the text between startMarker and endMarker for
// generated, leaving everything outside the markers untouched. Without a
// complete block the new one is appended; a dangling start marker is dropped.
func ReplaceManagedBlock(body, startMarker, endMarker, generated string) string {
	block := startMarker + "\n" + generated + "\n" + endMarker

	if start := strings.Index(body, startMarker); start >= 0 {
		if end := strings.Index(body[start:], endMarker); end >= 0 {
			end += start + len(endMarker)
			return body[:start] + block + body[end:]
		}
		body = body[:start] + strings.TrimPrefix(body[start+len(startMarker):], "\n")
	}

	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}
