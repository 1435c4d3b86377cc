package main

import (
	"testing"
	"time"

	"github.com/darui3018823/discordgo"
)

func TestWaitForMessageDelivery(t *testing.T) {
	hub := newWaiterHub()
	done := make(chan *discordgo.Message, 1)

	go func() {
		m, ok := hub.WaitForMessage("u1", "c1", time.Second)
		if !ok {
			done <- nil
			return
		}
		done <- m
	}()

	// Feed until the waiter is registered
	msg := &discordgo.Message{ID: "m1", ChannelID: "c1", Author: &discordgo.User{ID: "u1"}}
	for !hub.feedMessage(msg) {
		time.Sleep(time.Millisecond)
	}

	got := <-done
	if got == nil || got.ID != "m1" {
		t.Fatalf("waiter received %v, want message m1", got)
	}
}

func TestWaitForMessageTimeout(t *testing.T) {
	hub := newWaiterHub()

	if _, ok := hub.WaitForMessage("u1", "c1", 10*time.Millisecond); ok {
		t.Fatal("WaitForMessage reported delivery on timeout")
	}

	// After timeout the waiter is unregistered; a late event is not consumed
	msg := &discordgo.Message{ID: "m1", ChannelID: "c1", Author: &discordgo.User{ID: "u1"}}
	if hub.feedMessage(msg) {
		t.Error("feedMessage consumed an event after the waiter timed out")
	}
}

func TestFeedMessageIgnoresOtherUsers(t *testing.T) {
	hub := newWaiterHub()
	done := make(chan bool, 1)

	go func() {
		_, ok := hub.WaitForMessage("u1", "c1", 100*time.Millisecond)
		done <- ok
	}()

	other := &discordgo.Message{ID: "m1", ChannelID: "c1", Author: &discordgo.User{ID: "u2"}}
	time.Sleep(5 * time.Millisecond)
	if hub.feedMessage(other) {
		t.Error("feedMessage matched a different user's message")
	}
	if <-done {
		t.Error("waiter woke on a different user's message")
	}
}

func TestWaitForReaction(t *testing.T) {
	hub := newWaiterHub()
	done := make(chan bool, 1)

	go func() {
		done <- hub.WaitForReaction("u1", "m1", "e1", time.Second)
	}()

	r := &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			UserID:    "u1",
			MessageID: "m1",
			Emoji:     discordgo.Emoji{ID: "e1"},
		},
	}
	for !hub.feedReaction(r) {
		time.Sleep(time.Millisecond)
	}

	if !<-done {
		t.Fatal("waiter did not observe the reaction")
	}
}

func TestFeedMessageNeverSwallowed(t *testing.T) {
	// Race feeds against expiring waiters: whenever feedMessage reports
	// the message as consumed, the waiter must actually receive it.
	hub := newWaiterHub()
	msg := &discordgo.Message{ID: "m1", ChannelID: "c1", Author: &discordgo.User{ID: "u1"}}

	for i := 0; i < 200; i++ {
		got := make(chan *discordgo.Message, 1)
		go func() {
			m, ok := hub.WaitForMessage("u1", "c1", time.Millisecond)
			if !ok {
				m = nil
			}
			got <- m
		}()

		time.Sleep(time.Millisecond)
		fed := hub.feedMessage(msg)
		m := <-got
		if fed && m == nil {
			t.Fatal("feedMessage consumed a message the waiter never received")
		}
	}
}

func TestWaitForReactionTimeout(t *testing.T) {
	hub := newWaiterHub()
	if hub.WaitForReaction("u1", "m1", "e1", 10*time.Millisecond) {
		t.Fatal("WaitForReaction reported delivery on timeout")
	}
}
