package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastGlobal(msgType string, payload interface{})
	BroadcastToQuiz(quizID string, msgType string, payload interface{})
}
