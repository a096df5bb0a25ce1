package service

// Broadcaster pushes run progress to live observers (avoids an import
// cycle with the WebSocket transport)
type Broadcaster interface {
	BroadcastToRun(runID string, msgType string, payload interface{})
	DisconnectRun(runID string)
}
