package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func recvMessage(t *testing.T, conn *Connection) *Message {
	t.Helper()
	select {
	case data := <-conn.Send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad message payload: %v", err)
		}
		return &msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestHub_GlobalBroadcastReachesAll(t *testing.T) {
	hub := NewHub()

	global := &Connection{UserID: "u1", Send: make(chan []byte, 4), Hub: hub}
	quiz := &Connection{UserID: "u2", QuizID: "q1", Send: make(chan []byte, 4), Hub: hub}
	hub.Register(global)
	hub.Register(quiz)

	hub.BroadcastGlobal("leaderboard_update", map[string]int{"totalScore": 10})

	for _, conn := range []*Connection{global, quiz} {
		msg := recvMessage(t, conn)
		if msg.Type != MsgLeaderboardUpdate {
			t.Fatalf("message type = %q", msg.Type)
		}
	}
}

func TestHub_QuizBroadcastIsScoped(t *testing.T) {
	hub := NewHub()

	sub := &Connection{UserID: "u1", QuizID: "q1", Send: make(chan []byte, 4), Hub: hub}
	other := &Connection{UserID: "u2", QuizID: "q2", Send: make(chan []byte, 4), Hub: hub}
	hub.Register(sub)
	hub.Register(other)

	hub.BroadcastToQuiz("q1", "leaderboard_update", map[string]int{"score": 5})

	if msg := recvMessage(t, sub); msg.Type != MsgLeaderboardUpdate {
		t.Fatalf("message type = %q", msg.Type)
	}

	select {
	case data := <-other.Send:
		t.Fatalf("q2 subscriber received a q1 broadcast: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()

	conn := &Connection{UserID: "u1", Send: make(chan []byte, 4), Hub: hub}
	hub.Register(conn)
	hub.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Fatal("expected send channel to be closed, got a message")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after unregister")
	}
}
