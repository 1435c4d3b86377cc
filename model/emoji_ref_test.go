package model

import "testing"

func TestEmojiRefTag(t *testing.T) {
	tests := []struct {
		ref     EmojiRef
		tag     string
		apiName string
	}{
		{EmojiRef{ID: "111", Name: "wave"}, "<:wave:111>", "wave:111"},
		{EmojiRef{ID: "222", Name: "blob", Animated: true}, "<a:blob:222>", "blob:222"},
	}

	for _, tt := range tests {
		if got := tt.ref.Tag(); got != tt.tag {
			t.Errorf("Tag() = %q, want %q", got, tt.tag)
		}
		if got := tt.ref.APIName(); got != tt.apiName {
			t.Errorf("APIName() = %q, want %q", got, tt.apiName)
		}
	}
}
