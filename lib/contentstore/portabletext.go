package contentstore

import (
	"github.com/mazen160/go-random"
)

// Portable-text building blocks, the shape the store's rich text editor
// expects for document content.

type Reference struct {
	Type string `json:"_type"`
	Ref  string `json:"_ref"`
}

func NewReference(id string) Reference {
	return Reference{Type: "reference", Ref: id}
}

type Slug struct {
	Type    string `json:"_type"`
	Current string `json:"current"`
}

func NewSlug(current string) Slug {
	return Slug{Type: "slug", Current: current}
}

type Image struct {
	Type  string    `json:"_type"`
	Asset Reference `json:"asset"`
}

func NewImage(assetId string) Image {
	return Image{Type: "image", Asset: NewReference(assetId)}
}

type File struct {
	Type  string    `json:"_type"`
	Asset Reference `json:"asset"`
}

func NewFile(assetId string) File {
	return File{Type: "file", Asset: NewReference(assetId)}
}

type Span struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

type ContentBlock struct {
	Type     string `json:"_type"`
	Key      string `json:"_key"`
	Style    string `json:"style"`
	Children []Span `json:"children"`
	MarkDefs []any  `json:"markDefs"`
}

func blockKey() string {
	key, err := random.String(12)
	if err != nil {
		return "block-key"
	}
	return key
}

// NewContentBlock builds one text block. `style` is "normal" for paragraphs
// or a heading style like "h3".
func NewContentBlock(style, text string) ContentBlock {
	return ContentBlock{
		Type:  "block",
		Key:   blockKey(),
		Style: style,
		Children: []Span{
			{
				Type:  "span",
				Key:   blockKey(),
				Text:  text,
				Marks: []string{},
			},
		},
		MarkDefs: []any{},
	}
}
