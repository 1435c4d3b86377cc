package main

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/darui3018823/discordgo"

	"github.com/u16-io/EmoteWizard4Discord/config"
)

// recordingTransport replaces the REST client so handlers run offline
type recordingTransport struct {
	mu   sync.Mutex
	reqs []string
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.reqs = append(t.reqs, req.Method+":"+req.URL.Path)
	t.mu.Unlock()
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader("{}")),
	}, nil
}

func (t *recordingTransport) saw(method, fragment string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.reqs {
		if strings.HasPrefix(r, method+":") && strings.Contains(r, fragment) {
			return true
		}
	}
	return false
}

func newTestBot(t *testing.T) (*Bot, *recordingTransport) {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("discordgo.New: %v", err)
	}
	rt := &recordingTransport{}
	s.Client = &http.Client{Transport: rt}

	return &Bot{
		session:  s,
		conf:     &config.Config{},
		resolver: NewResolver("delimited"),
		faked:    NewFakedRegistry(),
		waiters:  newWaiterHub(),
	}, rt
}

func fakedRecord(authorID string) *FakedMessage {
	return &FakedMessage{
		Kind:          FakedPlain,
		Original:      &discordgo.Message{ID: "orig-1", ChannelID: "c1", Author: &discordgo.User{ID: authorID}},
		ReplacementID: "rep-1",
		ChannelID:     "c1",
		WebhookID:     "hook-1",
		WebhookToken:  "tok",
	}
}

func commandMessage(authorID string, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "cmd-1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   content,
		Author:    &discordgo.User{ID: authorID},
	}
}

func TestCmdDeleteRejectsNonAuthor(t *testing.T) {
	b, rt := newTestBot(t)
	b.faked.Register(fakedRecord("author-1"))

	b.cmdDelete(commandMessage("intruder", "delete rep-1"), []string{"rep-1"})

	if b.faked.Lookup("rep-1") == nil {
		t.Fatal("record removed by a non-author delete")
	}
	if rt.saw("DELETE", "/webhooks/hook-1") {
		t.Error("replacement message deleted by a non-author")
	}
	if !rt.saw("POST", "/channels/c1/messages") {
		t.Error("non-author got no rejection notice")
	}
}

func TestCmdDeleteByAuthor(t *testing.T) {
	b, rt := newTestBot(t)
	b.faked.Register(fakedRecord("author-1"))

	b.cmdDelete(commandMessage("author-1", "delete rep-1"), []string{"rep-1"})

	if b.faked.Lookup("rep-1") != nil {
		t.Fatal("record still registered after the author deleted it")
	}
	if !rt.saw("DELETE", "/webhooks/hook-1/tok/messages/rep-1") {
		t.Errorf("replacement not deleted, requests: %v", rt.reqs)
	}
	if !rt.saw("DELETE", "/channels/c1/messages/cmd-1") {
		t.Errorf("command message not cleaned up, requests: %v", rt.reqs)
	}
}

func TestCmdDeleteUnknownID(t *testing.T) {
	b, rt := newTestBot(t)

	b.cmdDelete(commandMessage("author-1", "delete nope"), []string{"nope"})

	if rt.saw("DELETE", "/webhooks/") {
		t.Error("delete attempted for an untracked message")
	}
	if !rt.saw("POST", "/channels/c1/messages") {
		t.Error("user got no notice for an untracked message")
	}
}

func TestCmdEditRejectsNonAuthor(t *testing.T) {
	b, rt := newTestBot(t)
	b.faked.Register(fakedRecord("author-1"))

	b.cmdEdit(commandMessage("intruder", "edit rep-1 new text"), []string{"rep-1", "new", "text"}, "rep-1 new text")

	if rt.saw("PATCH", "/webhooks/hook-1") {
		t.Error("replacement edited by a non-author")
	}
}

func TestCmdEditByAuthor(t *testing.T) {
	b, rt := newTestBot(t)
	b.faked.Register(fakedRecord("author-1"))

	b.cmdEdit(commandMessage("author-1", "edit rep-1 new text"), []string{"rep-1", "new", "text"}, "rep-1 new text")

	if !rt.saw("PATCH", "/webhooks/hook-1/tok/messages/rep-1") {
		t.Errorf("replacement not edited, requests: %v", rt.reqs)
	}
	if b.faked.Lookup("rep-1") == nil {
		t.Error("record dropped by an edit")
	}
}

func TestApplyEditStickerImmutable(t *testing.T) {
	b, rt := newTestBot(t)
	record := fakedRecord("author-1")
	record.Kind = FakedSticker

	if err := b.applyEdit(record, "new text"); !errors.Is(err, errStickerImmutable) {
		t.Fatalf("applyEdit on sticker = %v, want errStickerImmutable", err)
	}
	if len(rt.reqs) != 0 {
		t.Errorf("sticker edit reached the API: %v", rt.reqs)
	}
}
