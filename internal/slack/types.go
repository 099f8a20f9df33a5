package slack

// Block Kit payload types, limited to the block shapes the daily report
// uses: header, section, divider, and context.

// Message is the top-level webhook payload.
type Message struct {
	Blocks []Block `json:"blocks"`
}

// Block is a single Block Kit block.
type Block struct {
	Type      string `json:"type"`
	Text      *Text  `json:"text,omitempty"`
	Elements  []Text `json:"elements,omitempty"`
	Accessory *Image `json:"accessory,omitempty"`
}

// Text is a plain_text or mrkdwn text object.
type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Image is an image accessory attached to a section block.
type Image struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
	AltText  string `json:"alt_text"`
}

// HeaderBlock builds a header block with plain text.
func HeaderBlock(text string) Block {
	return Block{Type: "header", Text: &Text{Type: "plain_text", Text: text, Emoji: true}}
}

// SectionBlock builds a section block with mrkdwn text.
func SectionBlock(text string) Block {
	return Block{Type: "section", Text: &Text{Type: "mrkdwn", Text: text}}
}

// DividerBlock builds a divider block.
func DividerBlock() Block {
	return Block{Type: "divider"}
}

// ContextBlock builds a context block with a single mrkdwn element.
func ContextBlock(text string) Block {
	return Block{Type: "context", Elements: []Text{{Type: "mrkdwn", Text: text}}}
}

// ImageAccessory builds an image accessory for a section block.
func ImageAccessory(imageURL, altText string) *Image {
	return &Image{Type: "image", ImageURL: imageURL, AltText: altText}
}
