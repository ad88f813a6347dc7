package aula

// A Toolbox is a set of Tools shown on the admin panel
// in environments where ToolboxEnabled reports true.
// The Tools shortcut demo steps, such as seeding a video
// or generating a batch of codes.
type Toolbox []Tool

// Filter returns a Toolbox after removing all Tools that cannot be rendered.
// If none can be rendered, Filter returns a zero-value Toolbox.
func (t Toolbox) Filter() Toolbox {
	var n int
	for _, tool := range t {
		if tool.Render() {
			t[n] = tool
			n++
		}
	}

	if n == 0 {
		return make(Toolbox, 0)
	}

	return t[:n]
}

// A Tool groups actions touching one Collection.
type Tool struct {
	Actions    []ToolAction `json:"actions"`
	Collection Collection   `json:"collection"`
	Title      string       `json:"title"`
}

// Render asserts whether the Tool should be rendered.
func (t Tool) Render() bool { return len(t.Actions) > 0 && t.Collection.Valid() == nil }

// A ToolAction is a form the admin can submit to execute the named action.
type ToolAction struct {
	Method string `json:"method"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}
