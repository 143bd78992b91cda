package websocket

// Inbound action names.
const (
	ActionCreateRoom   = "create_room"
	ActionJoinRoom     = "join_room"
	ActionListRooms    = "list_rooms"
	ActionStartGame    = "start_game"
	ActionRestartGame  = "restart_game"
	ActionClickButton  = "click_button"
	ActionGambleChoose = "gamble_choose"
)

// Events emitted by the transport itself. Game events are defined in the
// room package next to the code that emits them.
const (
	EventConnected        = "connected"
	EventCreateRoomResult = "create_room_result"
	EventJoinRoomResult   = "join_room_result"
)

// Action is the inbound message envelope. Fields are populated per
// action; unused fields are ignored.
type Action struct {
	Action   string `json:"action"`
	Name     string `json:"name,omitempty"`
	RoomName string `json:"room_name,omitempty"`
	Code     string `json:"code,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
}

// Event is the outbound message envelope.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Connected is the payload of the connected event, telling the client its
// transient identity.
type Connected struct {
	ID string `json:"id"`
}

// CreateRoomResult acknowledges a create_room action.
type CreateRoomResult struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// JoinRoomResult acknowledges a join_room action.
type JoinRoomResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
