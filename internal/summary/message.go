package summary

// Message is the payload shape the delivery webhook accepts: optional
// top-level text plus a list of colored attachment sections.
type Message struct {
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is one section of the report message. Color is "good" or
// "danger" depending on how the entity compares to the prior day.
type Attachment struct {
	Color      string  `json:"color"`
	AuthorName string  `json:"author_name"`
	AuthorIcon string  `json:"author_icon,omitempty"`
	Fields     []Field `json:"fields"`
}

// Field is one labeled value inside an attachment.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}
