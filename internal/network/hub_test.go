package network

import "testing"

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	a := b.Register("a")
	c := b.Register("c")

	b.Broadcast([]byte("tick"))
	if got := string(<-a); got != "tick" {
		t.Errorf("a got %q", got)
	}
	if got := string(<-c); got != "tick" {
		t.Errorf("c got %q", got)
	}

	if !b.SendTo("a", []byte("only a")) {
		t.Fatal("SendTo to registered observer failed")
	}
	if b.SendTo("ghost", nil) {
		t.Error("SendTo to unknown observer reported success")
	}
	if len(c) != 0 {
		t.Error("unicast leaked to another observer")
	}

	b.Unregister("a")
	<-a
	if _, ok := <-a; ok {
		t.Error("channel must be closed after Unregister")
	}
	if b.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount() = %d, want 1", b.SubscriberCount())
	}
}

func TestBroadcaster_SlowObserverDoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("slow")

	for i := 0; i < cap(ch)+5; i++ {
		b.Broadcast([]byte{byte(i)})
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered %d, want %d", len(ch), cap(ch))
	}
}
