package classifier

import (
	"fmt"
	"regexp"

	"github.com/mwiatr/verba/internal/domain"
)

// supportedLanguages lists the language tags the vocabulary covers, in the
// priority order used by language detection.
var supportedLanguages = []string{"pl", "de", "en"}

// patternRule is one structural classification rule. Rules are matched in
// slice order and the first hit wins, so the lists below are a total order
// over ambiguity.
type patternRule struct {
	expr        *regexp.Regexp
	kind        domain.IntentKind
	action      domain.Action
	targetGroup int
}

// kindKeywords holds the keyword set of one intent kind. The slice order of
// kindKeywords within a vocabulary is the fixed tie-break priority for
// keyword-overlap inference.
type kindKeywords struct {
	kind  domain.IntentKind
	words []string
	set   map[string]struct{}
}

// vocabulary is the immutable per-language lookup structure built once at
// startup and shared by reference between classifier instances.
type vocabulary struct {
	shortcuts     map[string]domain.Action
	patterns      []patternRule
	keywords      []kindKeywords
	queryStarters []string
	optionWords   []string
	statusWords   []string
	helpWords     []string
	indicators    []string
}

var vocabularies = buildVocabularies()

func vocabularyFor(lang string) *vocabulary {
	if v, ok := vocabularies[lang]; ok {
		return v
	}
	return vocabularies["en"]
}

// normalizeLang maps a language tag to a supported one, defaulting to
// English for anything outside the vocabulary.
func normalizeLang(lang string) string {
	for _, supported := range supportedLanguages {
		if lang == supported {
			return lang
		}
	}
	return "en"
}

func buildVocabularies() map[string]*vocabulary {
	out := map[string]*vocabulary{
		"pl": {
			shortcuts: map[string]domain.Action{
				"dalej": domain.ActionNext, "kontynuuj": domain.ActionNext,
				"cofnij": domain.ActionUndo, "wstecz": domain.ActionUndo,
				"powtórz": domain.ActionRepeat, "jeszcze raz": domain.ActionRepeat,
				"anuluj": domain.ActionCancel,
				"tak":    domain.ActionConfirm, "nie": domain.ActionDeny,
				"ok": domain.ActionConfirm,
			},
			patterns: compileRules([]ruleSpec{
				{`(zbuduj|build|make)\s*(projekt|project|all)?`, domain.KindBuild, domain.ActionBuild, 0},
				{`(uruchom|run)\s+cel\s+(\w+)`, domain.KindBuild, domain.ActionTarget, 2},
				{`(wyczyść|clean)`, domain.KindBuild, domain.ActionClean, 0},
				{`(zainstaluj|install)`, domain.KindBuild, domain.ActionInstall, 0},
				{`(testy|test|tests)`, domain.KindBuild, domain.ActionTest, 0},
				{`(uruchom|run|wykonaj|execute)\s+(.+)`, domain.KindShell, domain.ActionRun, 2},
				{`(lista|list|ls)\s*(plików|files)?`, domain.KindShell, domain.ActionList, 0},
				{`(pokaż|show|cat)\s+(.+)`, domain.KindShell, domain.ActionShow, 2},
				{`(zatwierdź|commit)\s*(.*)`, domain.KindGit, domain.ActionCommit, 2},
				{`(wypchnij|push)`, domain.KindGit, domain.ActionPush, 0},
				{`(pobierz|pull|fetch)`, domain.KindGit, domain.ActionPull, 0},
				{`(status|stan)`, domain.KindGit, domain.ActionStatus, 0},
				{`(gałąź|branch)\s+(\w+)`, domain.KindGit, domain.ActionBranch, 2},
				{`(przełącz|checkout|switch)\s+(\w+)`, domain.KindGit, domain.ActionCheckout, 2},
				{`(zbuduj|build)\s+(obraz|image)\s*(\w+)?`, domain.KindDocker, domain.ActionBuild, 3},
				{`(uruchom|run)\s+(kontener|container)\s*(\w+)?`, domain.KindDocker, domain.ActionRun, 3},
				{`(zatrzymaj|stop)\s+(kontener|container)\s*(\w+)?`, domain.KindDocker, domain.ActionStop, 3},
				{`(kontenery|containers|ps)`, domain.KindDocker, domain.ActionPS, 0},
				{`(compose)\s+(up|down|restart)`, domain.KindDocker, domain.ActionCompose, 2},
				{`(uruchom|run)\s+(skrypt|script)\s+(.+)`, domain.KindPython, domain.ActionRun, 3},
				{`(pip)\s+(install|uninstall)\s+(.+)`, domain.KindPython, domain.ActionPip, 3},
				{`(pytest|testy|tests)`, domain.KindPython, domain.ActionTest, 0},
			}),
			keywords: buildKeywords(map[domain.IntentKind][]string{
				domain.KindBuild:          {"make", "zbuduj", "kompiluj", "cel", "uruchom cel"},
				domain.KindShell:          {"shell", "bash", "terminal", "uruchom", "wykonaj", "polecenie"},
				domain.KindGit:            {"git", "commit", "push", "pull", "gałąź", "zatwierdź", "wypchnij", "pobierz"},
				domain.KindDocker:         {"docker", "kontener", "obraz", "compose", "uruchom kontener", "zbuduj obraz"},
				domain.KindPython:         {"python", "py", "pip", "venv", "pytest", "skrypt", "moduł"},
				domain.KindConversational: {"dalej", "kontynuuj", "cofnij", "wstecz", "powtórz", "jeszcze raz", "anuluj", "tak", "nie"},
				domain.KindQuery:          {"co", "jaki", "pomoc", "status", "opcje", "możliwości"},
			}),
			queryStarters: []string{"co ", "jaki ", "jak ", "gdzie ", "czy ", "pomoc", "?"},
			optionWords:   []string{"opcje", "możliwości", "co mogę"},
			statusWords:   []string{"status", "stan"},
			helpWords:     []string{"pomoc"},
			indicators:    []string{"zbuduj", "uruchom", "pokaż", "wypchnij", "pobierz", "dalej", "cofnij", "tak", "nie"},
		},
		"de": {
			shortcuts: map[string]domain.Action{
				"weiter": domain.ActionNext, "fortfahren": domain.ActionNext,
				"zurück": domain.ActionUndo, "rückgängig": domain.ActionUndo,
				"wiederholen": domain.ActionRepeat, "nochmal": domain.ActionRepeat,
				"abbrechen": domain.ActionCancel,
				"ja":        domain.ActionConfirm, "nein": domain.ActionDeny,
				"ok": domain.ActionConfirm,
			},
			patterns: compileRules([]ruleSpec{
				{`(bauen|build|make)\s*(projekt|project|all)?`, domain.KindBuild, domain.ActionBuild, 0},
				{`(ausführen|run)\s+ziel\s+(\w+)`, domain.KindBuild, domain.ActionTarget, 2},
				{`(säubern|clean)`, domain.KindBuild, domain.ActionClean, 0},
				{`(installieren|install)`, domain.KindBuild, domain.ActionInstall, 0},
				{`(tests|test)`, domain.KindBuild, domain.ActionTest, 0},
				{`(ausführen|run|execute)\s+(.+)`, domain.KindShell, domain.ActionRun, 2},
				{`(liste|list|ls)\s*(dateien|files)?`, domain.KindShell, domain.ActionList, 0},
				{`(zeigen|show|cat)\s+(.+)`, domain.KindShell, domain.ActionShow, 2},
				{`(bestätigen|commit)\s*(.*)`, domain.KindGit, domain.ActionCommit, 2},
				{`(hochladen|push)`, domain.KindGit, domain.ActionPush, 0},
				{`(herunterladen|pull|fetch)`, domain.KindGit, domain.ActionPull, 0},
				{`(status|stand)`, domain.KindGit, domain.ActionStatus, 0},
				{`(zweig|branch)\s+(\w+)`, domain.KindGit, domain.ActionBranch, 2},
				{`(wechseln|checkout|switch)\s+(\w+)`, domain.KindGit, domain.ActionCheckout, 2},
				{`(bauen|build)\s+(image|bild)\s*(\w+)?`, domain.KindDocker, domain.ActionBuild, 3},
				{`(starten|run)\s+(container)\s*(\w+)?`, domain.KindDocker, domain.ActionRun, 3},
				{`(stoppen|stop)\s+(container)\s*(\w+)?`, domain.KindDocker, domain.ActionStop, 3},
				{`(container|ps)`, domain.KindDocker, domain.ActionPS, 0},
				{`(compose)\s+(up|down|restart)`, domain.KindDocker, domain.ActionCompose, 2},
				{`(ausführen|run)\s+(skript|script)\s+(.+)`, domain.KindPython, domain.ActionRun, 3},
				{`(pip)\s+(install|uninstall|installieren|deinstallieren)\s+(.+)`, domain.KindPython, domain.ActionPip, 3},
				{`(pytest|tests)`, domain.KindPython, domain.ActionTest, 0},
			}),
			keywords: buildKeywords(map[domain.IntentKind][]string{
				domain.KindBuild:          {"make", "bauen", "kompilieren", "ziel", "ausführen"},
				domain.KindShell:          {"shell", "bash", "terminal", "ausführen", "befehl"},
				domain.KindGit:            {"git", "commit", "push", "pull", "zweig", "bestätigen", "hochladen", "herunterladen"},
				domain.KindDocker:         {"docker", "container", "image", "compose", "container starten", "image bauen"},
				domain.KindPython:         {"python", "py", "pip", "venv", "pytest", "skript", "modul"},
				domain.KindConversational: {"weiter", "fortfahren", "zurück", "rückgängig", "wiederholen", "nochmal", "abbrechen", "ja", "nein"},
				domain.KindQuery:          {"was", "welche", "hilfe", "status", "optionen", "möglichkeiten"},
			}),
			queryStarters: []string{"was ", "welche ", "wie ", "wo ", "hilfe", "?"},
			optionWords:   []string{"optionen", "möglichkeiten", "was kann"},
			statusWords:   []string{"status", "stand"},
			helpWords:     []string{"hilfe"},
			indicators:    []string{"bauen", "ausführen", "zeigen", "hochladen", "herunterladen", "weiter", "zurück", "ja", "nein"},
		},
		"en": {
			shortcuts: map[string]domain.Action{
				"next": domain.ActionNext, "continue": domain.ActionNext,
				"back": domain.ActionUndo, "undo": domain.ActionUndo,
				"repeat": domain.ActionRepeat, "again": domain.ActionRepeat,
				"cancel": domain.ActionCancel,
				"yes":    domain.ActionConfirm, "no": domain.ActionDeny,
				"ok": domain.ActionConfirm,
			},
			patterns: compileRules([]ruleSpec{
				{`(build|make)\s*(project|all)?`, domain.KindBuild, domain.ActionBuild, 0},
				{`(run)\s+target\s+(\w+)`, domain.KindBuild, domain.ActionTarget, 2},
				{`(clean)`, domain.KindBuild, domain.ActionClean, 0},
				{`(install)`, domain.KindBuild, domain.ActionInstall, 0},
				{`(test|tests)`, domain.KindBuild, domain.ActionTest, 0},
				{`(run|execute)\s+(.+)`, domain.KindShell, domain.ActionRun, 2},
				{`(list|ls)\s*(files)?`, domain.KindShell, domain.ActionList, 0},
				{`(show|cat)\s+(.+)`, domain.KindShell, domain.ActionShow, 2},
				{`(commit)\s*(.*)`, domain.KindGit, domain.ActionCommit, 2},
				{`(push)`, domain.KindGit, domain.ActionPush, 0},
				{`(pull|fetch)`, domain.KindGit, domain.ActionPull, 0},
				{`(status)`, domain.KindGit, domain.ActionStatus, 0},
				{`(branch)\s+(\w+)`, domain.KindGit, domain.ActionBranch, 2},
				{`(checkout|switch)\s+(\w+)`, domain.KindGit, domain.ActionCheckout, 2},
				{`(build)\s+(image)\s*(\w+)?`, domain.KindDocker, domain.ActionBuild, 3},
				{`(run)\s+(container)\s*(\w+)?`, domain.KindDocker, domain.ActionRun, 3},
				{`(stop)\s+(container)\s*(\w+)?`, domain.KindDocker, domain.ActionStop, 3},
				{`(containers|ps)`, domain.KindDocker, domain.ActionPS, 0},
				{`(compose)\s+(up|down|restart)`, domain.KindDocker, domain.ActionCompose, 2},
				{`(run)\s+(script)\s+(.+)`, domain.KindPython, domain.ActionRun, 3},
				{`(pip)\s+(install|uninstall)\s+(.+)`, domain.KindPython, domain.ActionPip, 3},
				{`(pytest|tests)`, domain.KindPython, domain.ActionTest, 0},
			}),
			keywords: buildKeywords(map[domain.IntentKind][]string{
				domain.KindBuild:          {"make", "build", "compile", "target", "run target"},
				domain.KindShell:          {"shell", "bash", "terminal", "run", "execute", "command"},
				domain.KindGit:            {"git", "commit", "push", "pull", "branch", "merge", "upload", "download"},
				domain.KindDocker:         {"docker", "container", "image", "compose", "run container", "build image"},
				domain.KindPython:         {"python", "py", "pip", "venv", "pytest", "script", "module"},
				domain.KindConversational: {"next", "continue", "back", "undo", "repeat", "again", "cancel", "yes", "no"},
				domain.KindQuery:          {"what", "which", "help", "status", "options", "possibilities"},
			}),
			queryStarters: []string{"what ", "which ", "how ", "where ", "help", "?"},
			optionWords:   []string{"options", "possibilities", "what can"},
			statusWords:   []string{"status", "state"},
			helpWords:     []string{"help"},
			indicators:    []string{"build", "run", "show", "push", "pull", "next", "back", "yes", "no"},
		},
	}
	return out
}

type ruleSpec struct {
	pattern     string
	kind        domain.IntentKind
	action      domain.Action
	targetGroup int
}

func compileRules(specs []ruleSpec) []patternRule {
	rules := make([]patternRule, 0, len(specs))
	for _, s := range specs {
		if !domain.ValidAction(s.kind, s.action) {
			panic(fmt.Sprintf("classifier: action %q not valid for kind %q", s.action, s.kind))
		}
		rules = append(rules, patternRule{
			expr:        regexp.MustCompile(s.pattern),
			kind:        s.kind,
			action:      s.action,
			targetGroup: s.targetGroup,
		})
	}
	return rules
}

// keywordKindOrder is the fixed priority used to break keyword-overlap ties.
var keywordKindOrder = []domain.IntentKind{
	domain.KindBuild,
	domain.KindShell,
	domain.KindGit,
	domain.KindDocker,
	domain.KindPython,
	domain.KindConversational,
	domain.KindQuery,
}

func buildKeywords(byKind map[domain.IntentKind][]string) []kindKeywords {
	out := make([]kindKeywords, 0, len(keywordKindOrder))
	for _, kind := range keywordKindOrder {
		words := byKind[kind]
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[w] = struct{}{}
		}
		out = append(out, kindKeywords{kind: kind, words: words, set: set})
	}
	return out
}
