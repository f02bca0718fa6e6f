// Package control defines lightweight command messages used by the UI to
// request actions from the application command loop. The command-loop
// centralizes effect control to keep handle mutation single-writer.
package control

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdReplay CommandType = iota
	CmdPause
	CmdResume
	CmdStop
)

// Command is the message sent from UI to ShowcaseManager.commandLoop. The
// Target names a showcase entry by its config name. The optional Reply
// channel can be used by the commandLoop to confirm completion back to the
// sender (useful for keeping UI state in sync).
type Command struct {
	Type   CommandType
	Target string
	Reply  chan error // optional reply channel
}
