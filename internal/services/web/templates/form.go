package templates

// FieldErrors maps form field names to a translated message.
type FieldErrors map[string]string

type inputField struct {
	Name         string
	Type         string
	Label        string
	Value        string
	Error        string
	Autocomplete string
	Required     bool
}

func (hw *writer) input(f inputField) {
	id := "field-" + f.Name
	class := "field"
	if f.Error != "" {
		class += " field-invalid"
	}
	hw.open("div", "class", class)
	hw.element("label", f.Label, "for", id)
	attrs := []string{"id", id, "name", f.Name, "type", f.Type}
	if f.Type != "password" {
		attrs = append(attrs, "value", f.Value)
	}
	attrs = append(attrs, "autocomplete", f.Autocomplete, "required", when(f.Required, "required"))
	if f.Error != "" {
		attrs = append(attrs, "aria-invalid", "true", "aria-describedby", id+"-error")
	}
	hw.open("input", attrs...)
	if f.Error != "" {
		hw.element("p", f.Error, "class", "field-error", "id", id+"-error")
	}
	hw.close("div")
}

func (hw *writer) hidden(name, value string) {
	hw.open("input", "type", "hidden", "name", name, "value", value)
}
