package plugin

// State is the lifecycle state tracked per registered plugin id.
//
// Transitions are driven exclusively by the registry's activation and
// deactivation paths:
//
//	registered -> initializing -> active
//	                           -> error
//	active     -> disposing    -> disposed
//	                           -> error
//
// error and disposed are terminal for that attempt only; a later
// activation of the same id re-enters initializing.
type State string

const (
	// StateRegistered is assigned once at registration and is the only
	// state reachable from plugin creation.
	StateRegistered State = "registered"
	// StateInitializing is set while the Initialize hook is running.
	StateInitializing State = "initializing"
	// StateActive indicates Initialize completed successfully.
	StateActive State = "active"
	// StateDisposing is set while the Dispose hook is running.
	StateDisposing State = "disposing"
	// StateDisposed indicates Dispose completed successfully.
	StateDisposed State = "disposed"
	// StateError indicates the most recent Initialize or Dispose failed.
	StateError State = "error"
)

// String returns the state's wire/display form.
func (s State) String() string {
	return string(s)
}
