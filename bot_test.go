package main

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/darui3018823/discordgo"

	"github.com/u16-io/EmoteWizard4Discord/db"
	"github.com/u16-io/EmoteWizard4Discord/service"
)

func TestGuildWebhookUnsetSkipsFetch(t *testing.T) {
	if err := db.Init(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	b, rt := newTestBot(t)
	b.webhooks = service.NewWebhookConfigStore()

	cfg, err := b.webhooks.Get("g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := b.webhooks.SetWebhook(cfg, ""); err != nil {
		t.Fatalf("SetWebhook: %v", err)
	}

	wh, err := b.GuildWebhook("g1")
	if err != nil {
		t.Fatalf("GuildWebhook: %v", err)
	}
	if wh != nil {
		t.Errorf("GuildWebhook = %+v, want nil for an unset binding", wh)
	}
	if rt.saw("GET", "/webhooks/") {
		t.Errorf("unset binding still hit the API: %v", rt.reqs)
	}
}

func TestRelocateIdempotent(t *testing.T) {
	b, rt := newTestBot(t)
	wh := &discordgo.Webhook{ID: "hook-1", ChannelID: "c1"}

	if err := b.Relocate(wh, "c1"); err != nil {
		t.Fatalf("Relocate to current channel: %v", err)
	}
	if len(rt.reqs) != 0 {
		t.Errorf("relocation to the current channel hit the API: %v", rt.reqs)
	}

	if err := b.Relocate(wh, "c2"); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if !rt.saw("PATCH", "/webhooks/hook-1") {
		t.Errorf("relocation did not edit the webhook: %v", rt.reqs)
	}
	if wh.ChannelID != "c2" {
		t.Errorf("webhook channel = %q after relocation, want %q", wh.ChannelID, "c2")
	}
}

func TestIsNotFound(t *testing.T) {
	notFound := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}

	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("plain"), false},
		{notFound, true},
		{fmt.Errorf("wrapped: %w", notFound), true},
		{forbidden, false},
		{&discordgo.RESTError{}, false},
	}

	for _, tt := range tests {
		if got := isNotFound(tt.err); got != tt.want {
			t.Errorf("isNotFound(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
