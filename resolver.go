package main

import (
	"regexp"
	"strings"

	"github.com/u16-io/EmoteWizard4Discord/model"
)

// EmojiIndex looks up custom emojis visible to the bot by exact name
type EmojiIndex interface {
	EmojiByName(name string) (model.EmojiRef, bool)
}

// TokenStrategy is one grammar for spotting emoji tokens in message text.
// Rewrite replaces every resolvable token in content. The seen set and
// found list are shared across strategies within a single resolve pass:
// replacement happens for every match, but each rendered tag is recorded
// in found only once.
type TokenStrategy interface {
	Rewrite(content string, index EmojiIndex, seen map[string]bool, found *[]model.EmojiRef) string
}

var (
	delimitedToken = regexp.MustCompile(`;[^;]+;`)
	colonToken     = regexp.MustCompile(`:\w+:`)

	// surroundings that mark a colon token as part of a full emoji tag
	tagOpen  = regexp.MustCompile(`<a?$`)
	tagClose = regexp.MustCompile(`^\d+>`)
)

// DelimitedStrategy matches ;name; tokens
type DelimitedStrategy struct{}

func (DelimitedStrategy) Rewrite(content string, index EmojiIndex, seen map[string]bool, found *[]model.EmojiRef) string {
	return rewriteTokens(content, delimitedToken, ";", nil, index, seen, found)
}

// ColonStrategy matches :name: tokens, skipping any token that already sits
// inside a fully-qualified emoji tag so resolved text is never rewritten
// twice.
type ColonStrategy struct{}

func (ColonStrategy) Rewrite(content string, index EmojiIndex, seen map[string]bool, found *[]model.EmojiRef) string {
	return rewriteTokens(content, colonToken, ":", insideEmojiTag, index, seen, found)
}

func insideEmojiTag(content string, start, end int) bool {
	return tagOpen.MatchString(content[:start]) && tagClose.MatchString(content[end:])
}

// rewriteTokens scans content left to right for non-overlapping matches of
// re, resolving each token name against the index. Unresolved tokens are
// left verbatim.
func rewriteTokens(content string, re *regexp.Regexp, trim string, skip func(string, int, int) bool, index EmojiIndex, seen map[string]bool, found *[]model.EmojiRef) string {
	spans := re.FindAllStringIndex(content, -1)
	if spans == nil {
		return content
	}

	var b strings.Builder
	last := 0
	for _, span := range spans {
		start, end := span[0], span[1]
		if skip != nil && skip(content, start, end) {
			continue
		}

		name := strings.Trim(content[start:end], trim)
		emoji, ok := index.EmojiByName(name)
		if !ok {
			continue
		}

		b.WriteString(content[last:start])
		b.WriteString(emoji.Tag())
		last = end

		if !seen[emoji.Tag()] {
			seen[emoji.Tag()] = true
			*found = append(*found, emoji)
		}
	}
	b.WriteString(content[last:])
	return b.String()
}

// Resolver rewrites emoji tokens in message content using the configured
// grammars.
type Resolver struct {
	strategies []TokenStrategy
}

// NewResolver builds a resolver for a token_mode value ("delimited",
// "colon" or "both")
func NewResolver(mode string) *Resolver {
	switch mode {
	case "colon":
		return &Resolver{strategies: []TokenStrategy{ColonStrategy{}}}
	case "both":
		return &Resolver{strategies: []TokenStrategy{DelimitedStrategy{}, ColonStrategy{}}}
	default:
		return &Resolver{strategies: []TokenStrategy{DelimitedStrategy{}}}
	}
}

// Resolve rewrites all resolvable tokens and returns the rewritten text plus
// the emojis used, deduplicated by rendered tag. An empty list means the
// message needs no repost.
func (r *Resolver) Resolve(content string, index EmojiIndex) (string, []model.EmojiRef) {
	seen := map[string]bool{}
	var found []model.EmojiRef

	for _, strategy := range r.strategies {
		content = strategy.Rewrite(content, index, seen, &found)
	}
	return content, found
}
