package dialog

// Button is one selectable option. The event it carries is encoded into a
// transport callback pattern at the boundary.
type Button struct {
	Label string
	Event Event
}

// Keyboard is a rendered option set: rows of buttons.
type Keyboard [][]Button

// Response is the outbound side of one dispatch: prompt text, the next
// option set, and an optional short notice for button acknowledgements.
type Response struct {
	Text     string
	Keyboard Keyboard
	// Notice is shown as a transient acknowledgement (e.g. a denied button
	// press) instead of a new message.
	Notice string
	Alert  bool
}

// Empty reports whether there is nothing to render; unmatched events produce
// empty responses and are dropped by the transport.
func (r Response) Empty() bool {
	return r.Text == "" && r.Notice == "" && len(r.Keyboard) == 0
}

// Btn builds a button.
func Btn(label string, ev Event) Button {
	return Button{Label: label, Event: ev}
}

// Row groups buttons into one keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}
