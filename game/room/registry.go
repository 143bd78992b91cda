package room

// Registry records which room, if any, each live connection belongs to. A
// connection may be in at most one room at a time; Bind enforces that
// explicitly instead of relying on callers to remember. Like the Store, it
// is serialized by the Manager.
type Registry struct {
	byConn map[string]string // connection ID -> room code
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byConn: make(map[string]string)}
}

// Bind associates a connection with a room. Returns false if the
// connection is already in a room.
func (r *Registry) Bind(connID, code string) bool {
	if _, bound := r.byConn[connID]; bound {
		return false
	}
	r.byConn[connID] = code
	return true
}

// Room returns the room code the connection is bound to, if any.
func (r *Registry) Room(connID string) (string, bool) {
	code, ok := r.byConn[connID]
	return code, ok
}

// Unbind drops the connection's room association.
func (r *Registry) Unbind(connID string) {
	delete(r.byConn, connID)
}

// Len returns the number of bound connections.
func (r *Registry) Len() int {
	return len(r.byConn)
}
