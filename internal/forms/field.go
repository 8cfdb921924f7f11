package forms

// Input types understood by the form templates
const (
	InputText     = "text"
	InputPassword = "password"
	InputEmail    = "email"
	InputSelect   = "select"
)

// Option is one choice of a select field
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Field is a rendered form input with its current value and errors
type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Multiple bool
	Required bool
	Options  []Option
	Errors   []string
	// Attrs are extra HTML attributes for the input element, e.g. style
	Attrs map[string]string
	// AjaxURL is set when the options are looked up on demand
	AjaxURL string
}

// HasErrors reports whether the field failed validation
func (f Field) HasErrors() bool {
	return len(f.Errors) > 0
}
