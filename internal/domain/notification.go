package domain

// WebhookMessage is the JSON body posted to a Discord-compatible webhook.
type WebhookMessage struct {
	Content *string `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

// Embed is a single rich embed inside a webhook message.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

// EmbedAuthor identifies the sender shown above the embed title.
type EmbedAuthor struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url,omitempty"`
}

// EmbedImage references an externally hosted image.
type EmbedImage struct {
	URL string `json:"url"`
}
