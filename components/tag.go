// Package components defines the data model shared by the generator, renderer and viewer.
package components

import "fmt"

// Tag categorises a placement. It biases glyph selection and is kept on the
// placement so later passes can reason about scene content.
type Tag uint8

const (
	TagBody Tag = iota
	TagEye
	TagFin
	TagAccent
	TagBubble
	TagProp
)

// String returns the lowercase tag name.
func (t Tag) String() string {
	names := TagNames()
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// TagNames returns the names of all tags in constant order.
func TagNames() []string {
	return []string{"body", "eye", "fin", "accent", "bubble", "prop"}
}

// TagCount returns the number of tags.
func TagCount() int {
	return len(TagNames())
}

// ParseTag resolves a tag name.
func ParseTag(name string) (Tag, error) {
	for i, n := range TagNames() {
		if n == name {
			return Tag(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tag %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	if int(t) >= TagCount() {
		return nil, fmt.Errorf("invalid tag %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
