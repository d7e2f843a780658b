package game

// EventKind names the outbound events the gateway fans out to a room's
// members. The values double as wire event names.
type EventKind string

const (
	EventRoomUpdate EventKind = "roomUpdate"
	EventGameStart  EventKind = "gameStart"
	EventGameUpdate EventKind = "gameUpdate"
	EventGameEnd    EventKind = "gameEnd"
)

// Event pairs an event kind with the snapshot taken inside the same
// critical section that produced it, so broadcasts never observe a
// half-applied transition. The snapshot's version lets the gateway drop
// a fan-out that lost the race to a newer one.
type Event struct {
	Kind EventKind
	Room Snapshot
}
