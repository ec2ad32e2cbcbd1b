package lofi

// TransportEvent is a live monitoring state change.
type TransportEvent int

const (
	// TransportPlaying is sent when monitoring starts.
	TransportPlaying TransportEvent = iota
	// TransportStopped is sent when monitoring stops.
	TransportStopped
	// TransportEnded is sent once when the source runs out during
	// monitoring. The noise sources keep playing until Stop.
	TransportEnded
)

// String returns the event name.
func (e TransportEvent) String() string {
	switch e {
	case TransportPlaying:
		return "playing"
	case TransportStopped:
		return "stopped"
	case TransportEnded:
		return "ended"
	default:
		return "unknown"
	}
}
