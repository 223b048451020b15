package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan []byte, buffer),
		logger: zerolog.Nop(),
	}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.send:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestJoinCourseSwitchesGroups(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient(hub, 8)
	hub.registerClient(client)

	hub.JoinCourse(client, "cs101")
	if got := hub.GroupSize("cs101"); got != 1 {
		t.Fatalf("cs101 group size = %d, want 1", got)
	}

	// Joining another course leaves the first group.
	hub.JoinCourse(client, "ec201")
	if got := hub.GroupSize("cs101"); got != 0 {
		t.Errorf("cs101 group size = %d, want 0 after switch", got)
	}
	if got := hub.GroupSize("ec201"); got != 1 {
		t.Errorf("ec201 group size = %d, want 1", got)
	}
}

func TestJoinCourseIgnoresUnregisteredClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient(hub, 8)

	hub.JoinCourse(client, "cs101")
	if got := hub.GroupSize("cs101"); got != 0 {
		t.Fatalf("group size = %d, want 0 for unregistered client", got)
	}
}

func TestPublishCourseUpdate(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	subscriber := newTestClient(hub, 8)
	bystander := newTestClient(hub, 8)
	hub.registerClient(subscriber)
	hub.registerClient(bystander)
	hub.JoinCourse(subscriber, "cs101")
	hub.JoinCourse(bystander, "ec201")

	hub.PublishCourseUpdate("cs101", 41)

	var event courseUpdatedEvent
	if err := json.Unmarshal(receive(t, subscriber), &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.Event != EventCourseUpdated || event.CourseID != "cs101" || event.SeatsAvailable != 41 {
		t.Errorf("event = %+v, want courseUpdated/cs101/41", event)
	}

	// Exactly one message per publish, and none outside the group.
	if len(subscriber.send) != 0 {
		t.Errorf("subscriber received %d extra messages", len(subscriber.send))
	}
	if len(bystander.send) != 0 {
		t.Error("bystander must not receive another group's update")
	}
}

func TestPublishCourseUpdateNoSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	// Publishing into the void must not panic or block.
	hub.PublishCourseUpdate("cs101", 41)
}

func TestPublishGlobal(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	first := newTestClient(hub, 8)
	second := newTestClient(hub, 8)
	hub.registerClient(first)
	hub.registerClient(second)
	hub.JoinCourse(first, "cs101")

	hub.PublishGlobal("courseCountUpdate", map[string]interface{}{"count": 3})

	for _, client := range []*Client{first, second} {
		var event globalEvent
		if err := json.Unmarshal(receive(t, client), &event); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if event.Event != "courseCountUpdate" {
			t.Errorf("event = %q, want courseCountUpdate", event.Event)
		}
	}
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	slow := newTestClient(hub, 1)
	hub.registerClient(slow)
	hub.JoinCourse(slow, "cs101")

	// Fill the buffer, then publish once more to overflow it.
	hub.PublishCourseUpdate("cs101", 2)
	hub.PublishCourseUpdate("cs101", 1)

	deadline := time.After(time.Second)
	for hub.ClientCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("slow client was not dropped")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got := hub.GroupSize("cs101"); got != 0 {
		t.Errorf("group size = %d, want 0 after drop", got)
	}
}

func TestUnregisterLeavesGroup(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient(hub, 8)
	hub.registerClient(client)
	hub.JoinCourse(client, "cs101")

	hub.unregisterClient(client)

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("client count = %d, want 0", got)
	}
	if got := hub.GroupSize("cs101"); got != 0 {
		t.Errorf("group size = %d, want 0", got)
	}
	// The send channel is closed so the write pump terminates.
	if _, open := <-client.send; open {
		t.Error("send channel must be closed on unregister")
	}
}

func TestSendStatistics(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	hub.SetStatisticsFunc(func() (interface{}, error) {
		return []map[string]interface{}{{"courseId": "cs101"}}, nil
	})

	client := newTestClient(hub, 8)
	hub.registerClient(client)
	hub.sendStatistics(client)

	var event globalEvent
	if err := json.Unmarshal(receive(t, client), &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.Event != "courseStatisticsUpdate" {
		t.Errorf("event = %q, want courseStatisticsUpdate", event.Event)
	}
}
