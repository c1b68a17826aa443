package domain

import "fmt"

// Intent actions understood by the presentation layer.
const (
	ActionLaunch   = "launch"
	ActionDial     = "dial"
	ActionView     = "view"
	ActionPickFile = "pick-file"
)

// Intent is an opaque request for the presentation layer to start something
// outside the shell: an app, a dialer, a browser, a picker.
type Intent struct {
	Action string
	Target string
	Extras map[string]string
}

func (i Intent) String() string {
	if i.Target == "" {
		return i.Action
	}
	return fmt.Sprintf("%s %s", i.Action, i.Target)
}

// LaunchIntent starts app.
func LaunchIntent(app App) Intent {
	return Intent{Action: ActionLaunch, Target: app.Exec, Extras: map[string]string{"package": app.Package}}
}

// DialIntent opens the dialer for phone.
func DialIntent(phone string) Intent {
	return Intent{Action: ActionDial, Target: "tel:" + phone}
}

// ViewIntent opens uri in the default handler.
func ViewIntent(uri string) Intent {
	return Intent{Action: ActionView, Target: uri}
}

// PickFileIntent asks the user to pick a file starting in dir.
func PickFileIntent(dir string) Intent {
	return Intent{Action: ActionPickFile, Target: dir}
}

// ActivityResult is what an activity started for a result reports back.
// OK is false when the user backed out.
type ActivityResult struct {
	OK   bool
	Data string
}
