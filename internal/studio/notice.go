package studio

// Notice variants, matching the toast styles of the page.
const (
	VariantSuccess = "success"
	VariantError   = "error"
	VariantWarning = "warning"
	VariantInfo    = "info"
)

// Notice is a user-visible message raised by the controller or a handler.
type Notice struct {
	Variant     string `json:"variant"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewNotice(variant, title, description string) *Notice {
	return &Notice{Variant: variant, Title: title, Description: description}
}
