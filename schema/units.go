// Package schema declares the content collections and the shape of their entries.
package schema

// Item is a single piece of unit content.
// Value is always present; Audio is nil when the source omits it.
type Item struct {
	Audio *bool  `json:"audio,omitempty" yaml:"audio,omitempty" jsonschema:"description=Whether the item has recorded audio"`
	Value string `json:"value" yaml:"value" jsonschema:"description=Text shown for the item"`
}

// HasAudio reports whether the item is flagged as having audio.
func (i Item) HasAudio() bool {
	return i.Audio != nil && *i.Audio
}

// Group is an ordered sequence of items, in display and playback order.
type Group []Item

// Unit is an ordered sequence of groups.
type Unit []Group

// Entry is the document stored in a single units data file.
type Entry struct {
	Nodes Unit `json:"nodes" yaml:"nodes"`
}

// Bool returns a pointer to b, for building items with an audio flag.
func Bool(b bool) *bool {
	return &b
}
