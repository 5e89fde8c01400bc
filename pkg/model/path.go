package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned for malformed field paths.
var ErrInvalidPath = errors.New("model: invalid path")

// Segment is one dotted component of a path with its trailing indices, so
// `items[2]` is {Name: "items", Indices: [2]}.
type Segment struct {
	Name    string
	Indices []int
}

func (s Segment) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	for _, idx := range s.Indices {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(idx))
		b.WriteByte(']')
	}
	return b.String()
}

// ParsePath splits a path such as `settings.items[2].enabled` into segments.
func ParsePath(path string) ([]Segment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	parts := strings.Split(path, ".")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		segment, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, path, err)
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

func parseSegment(part string) (Segment, error) {
	open := strings.IndexByte(part, '[')
	if open < 0 {
		if part == "" || strings.ContainsRune(part, ']') {
			return Segment{}, fmt.Errorf("bad segment %q", part)
		}
		return Segment{Name: part}, nil
	}
	if open == 0 {
		return Segment{}, fmt.Errorf("segment %q has no name", part)
	}

	segment := Segment{Name: part[:open]}
	rest := part[open:]
	for rest != "" {
		if rest[0] != '[' {
			return Segment{}, fmt.Errorf("unexpected %q in segment %q", rest, part)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Segment{}, fmt.Errorf("unclosed index in segment %q", part)
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil || idx < 0 {
			return Segment{}, fmt.Errorf("bad index %q in segment %q", rest[1:end], part)
		}
		segment.Indices = append(segment.Indices, idx)
		rest = rest[end+1:]
	}
	return segment, nil
}

// JoinPath appends a child name to a parent path.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// IndexPath appends an array index to a path.
func IndexPath(parent string, index int) string {
	return parent + "[" + strconv.Itoa(index) + "]"
}

// WildcardPath replaces every array index in path with `[]`, the form used by
// overlay keys and enum declarations that target all elements.
func WildcardPath(path string) string {
	var b strings.Builder
	inIndex := false
	for _, r := range path {
		switch {
		case r == '[':
			inIndex = true
			b.WriteString("[]")
		case r == ']':
			inIndex = false
		case !inIndex:
			b.WriteRune(r)
		}
	}
	return b.String()
}
