// Package classifier turns raw multi-language utterances into typed, scored
// commands. Classification never fails: every input resolves to a
// ParsedCommand, in the worst case a low-confidence shell fallback.
package classifier

import (
	"regexp"
	"strings"

	"github.com/mwiatr/verba/internal/domain"
)

const historyLimit = 50

// Classifier holds the per-session language selection and classification
// history. It is not safe for concurrent use; the orchestrator serializes
// access.
type Classifier struct {
	language   string
	autoDetect bool
	vocab      *vocabulary

	last    *domain.ParsedCommand
	history []domain.ParsedCommand
}

// New builds a classifier for the given language tag ("pl", "de", "en").
// Unknown tags fall back to English. When autoDetect is set, every call
// scores indicator words and may switch the session language.
func New(language string, autoDetect bool) *Classifier {
	lang := normalizeLang(language)
	return &Classifier{
		language:   lang,
		autoDetect: autoDetect,
		vocab:      vocabularyFor(lang),
	}
}

// Language returns the active language tag.
func (c *Classifier) Language() string { return c.language }

// SetLanguage switches the active language and its lookup tables.
func (c *Classifier) SetLanguage(language string) {
	c.language = normalizeLang(language)
	c.vocab = vocabularyFor(c.language)
}

// DetectLanguage scores indicator-word occurrences across supported
// languages and returns the winner. Zero hits, or a tie involving the
// current language, keep the current language.
func (c *Classifier) DetectLanguage(text string) string {
	lower := strings.ToLower(text)
	best, bestScore := "", 0
	scores := make(map[string]int, len(supportedLanguages))
	for _, lang := range supportedLanguages {
		score := 0
		for _, word := range vocabularies[lang].indicators {
			if strings.Contains(lower, word) {
				score++
			}
		}
		scores[lang] = score
		if score > bestScore {
			best, bestScore = lang, score
		}
	}
	if bestScore == 0 || scores[c.language] == bestScore {
		return c.language
	}
	return best
}

// Classify resolves text to a typed command. The steps run in strict order,
// short-circuiting on the first match: shortcut lookup, query detection,
// structural patterns, keyword-overlap inference, shell fallback.
func (c *Classifier) Classify(text string) domain.ParsedCommand {
	lang := c.language
	if c.autoDetect {
		if detected := c.DetectLanguage(text); detected != lang {
			c.SetLanguage(detected)
			lang = detected
		}
	}

	normalized := Normalize(text)

	if action, ok := c.vocab.shortcuts[normalized]; ok {
		cmd := c.shortcutCommand(action, text, lang)
		c.remember(cmd)
		return cmd
	}

	if c.isQuery(normalized) {
		cmd := c.queryCommand(normalized, text, lang)
		c.remember(cmd)
		return cmd
	}

	if cmd, ok := c.matchPatterns(normalized, text, lang); ok {
		c.remember(cmd)
		return cmd
	}

	if cmd, ok := c.inferFromKeywords(normalized, text, lang); ok {
		c.remember(cmd)
		return cmd
	}

	return domain.ParsedCommand{
		Kind:       domain.KindShell,
		Action:     domain.ActionUnknown,
		Args:       []string{normalized},
		Raw:        text,
		Confidence: domain.ConfidenceFallback,
		Language:   lang,
	}
}

var (
	trailingPunct = regexp.MustCompile(`[.!?]+$`)
	innerSpace    = regexp.MustCompile(`\s+`)
)

// Normalize lowercases, trims, strips trailing punctuation runs and
// collapses internal whitespace. It is idempotent.
func Normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = trailingPunct.ReplaceAllString(t, "")
	t = innerSpace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

func (c *Classifier) shortcutCommand(action domain.Action, raw, lang string) domain.ParsedCommand {
	if action == domain.ActionRepeat && c.last != nil {
		cmd := c.last.Clone()
		cmd.Raw = raw
		cmd.Confidence = domain.ConfidenceRepeat
		cmd.Language = lang
		return cmd
	}
	return domain.ParsedCommand{
		Kind:       domain.KindConversational,
		Action:     action,
		Raw:        raw,
		Confidence: domain.ConfidenceExact,
		Language:   lang,
	}
}

func (c *Classifier) isQuery(normalized string) bool {
	for _, s := range c.vocab.queryStarters {
		if strings.HasPrefix(normalized, s) || strings.HasSuffix(normalized, s) {
			return true
		}
	}
	return false
}

func (c *Classifier) queryCommand(normalized, raw, lang string) domain.ParsedCommand {
	action := domain.ActionQuery
	switch {
	case containsAny(normalized, c.vocab.optionWords):
		action = domain.ActionOptions
	case containsAny(normalized, c.vocab.statusWords):
		action = domain.ActionStatus
	case containsAny(normalized, c.vocab.helpWords):
		action = domain.ActionHelp
	}
	return domain.ParsedCommand{
		Kind:       domain.KindQuery,
		Action:     action,
		Raw:        raw,
		Confidence: domain.ConfidenceQuery,
		Language:   lang,
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func (c *Classifier) matchPatterns(normalized, raw, lang string) (domain.ParsedCommand, bool) {
	for _, rule := range c.vocab.patterns {
		m := rule.expr.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		target := ""
		if rule.targetGroup > 0 && len(m) > rule.targetGroup {
			target = strings.TrimSpace(m[rule.targetGroup])
		}
		return domain.ParsedCommand{
			Kind:       rule.kind,
			Action:     rule.action,
			Target:     target,
			Raw:        raw,
			Confidence: domain.ConfidencePattern,
			Language:   lang,
		}, true
	}
	return domain.ParsedCommand{}, false
}

func (c *Classifier) inferFromKeywords(normalized, raw, lang string) (domain.ParsedCommand, bool) {
	words := strings.Fields(normalized)
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}

	bestOverlap := 0
	var bestKind domain.IntentKind
	for _, kk := range c.vocab.keywords {
		overlap := 0
		for w := range wordSet {
			if _, ok := kk.set[w]; ok {
				overlap++
			}
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			bestKind = kk.kind
		}
	}
	if bestOverlap == 0 {
		return domain.ParsedCommand{}, false
	}
	return domain.ParsedCommand{
		Kind:       bestKind,
		Action:     domain.ActionInferred,
		Args:       words,
		Raw:        raw,
		Confidence: domain.ConfidenceKeyword,
		Language:   lang,
	}, true
}

func (c *Classifier) remember(cmd domain.ParsedCommand) {
	stored := cmd.Clone()
	c.last = &stored
	c.history = append(c.history, stored)
	if len(c.history) > historyLimit {
		c.history = c.history[len(c.history)-historyLimit:]
	}
}

// History returns the retained classifications, oldest first.
func (c *Classifier) History() []domain.ParsedCommand {
	return append([]domain.ParsedCommand(nil), c.history...)
}

// Suggest returns up to 5 unique completions for a partial input: recent
// history entries first, then static vocabulary keywords, both matched by
// prefix, case-insensitive.
func (c *Classifier) Suggest(prefix string) []string {
	normalized := Normalize(prefix)

	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	start := 0
	if len(c.history) > 10 {
		start = len(c.history) - 10
	}
	for i := len(c.history) - 1; i >= start; i-- {
		raw := c.history[i].Raw
		if strings.HasPrefix(strings.ToLower(raw), normalized) {
			add(raw)
		}
	}

	for _, kk := range c.vocab.keywords {
		for _, w := range kk.words {
			if strings.HasPrefix(w, normalized) {
				add(w)
			}
		}
	}

	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
