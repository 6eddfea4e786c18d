package suggest

import "github.com/mwiatr/verba/internal/domain"

// contextSuggestions are the static per-backend tables. Entries carry the
// base score before any error or prefix adjustment.
var contextSuggestions = map[string][]domain.Suggestion{
	"make": {
		{Text: "build the project", Command: "make all", Category: "make", Score: 0.9, Description: "Run the default target"},
		{Text: "clean up", Command: "make clean", Category: "make", Score: 0.7, Description: "Remove build artifacts"},
		{Text: "run the tests", Command: "make test", Category: "make", Score: 0.8, Description: "Run the test target"},
		{Text: "install", Command: "make install", Category: "make", Score: 0.6},
	},
	"git": {
		{Text: "check status", Command: "git status", Category: "git", Score: 0.95},
		{Text: "pull changes", Command: "git pull", Category: "git", Score: 0.85},
		{Text: "push changes", Command: "git push", Category: "git", Score: 0.8},
		{Text: "commit changes", Command: "git commit", Category: "git", Score: 0.75},
		{Text: "show history", Command: "git log --oneline -10", Category: "git", Score: 0.6},
	},
	"docker": {
		{Text: "build the image", Command: "docker build -t app .", Category: "docker", Score: 0.85},
		{Text: "run a container", Command: "docker run", Category: "docker", Score: 0.8},
		{Text: "show containers", Command: "docker ps", Category: "docker", Score: 0.9},
		{Text: "show images", Command: "docker images", Category: "docker", Score: 0.7},
	},
	"compose": {
		{Text: "start the services", Command: "docker compose up -d", Category: "docker", Score: 0.9},
		{Text: "stop the services", Command: "docker compose down", Category: "docker", Score: 0.85},
		{Text: "show service logs", Command: "docker compose logs -f", Category: "docker", Score: 0.8},
		{Text: "restart the services", Command: "docker compose restart", Category: "docker", Score: 0.7},
	},
	"python": {
		{Text: "run the tests", Command: "pytest", Category: "python", Score: 0.9},
		{Text: "install dependencies", Command: "pip install -r requirements.txt", Category: "python", Score: 0.85},
		{Text: "check types", Command: "mypy .", Category: "python", Score: 0.6},
		{Text: "format the code", Command: "black .", Category: "python", Score: 0.65},
	},
}

// errorPatternOrder fixes the scan order over errorSuggestions so candidate
// generation stays deterministic.
var errorPatternOrder = []string{"permission denied", "command not found", "merge conflict"}

// errorSuggestions maps substrings of captured error text to follow-up
// suggestions. Matching entries get a fixed score boost on top of the base.
var errorSuggestions = map[string][]domain.Suggestion{
	"permission denied": {
		{Text: "run with sudo", Command: "sudo !!", Category: "shell", Score: 0.8},
		{Text: "fix permissions", Command: "chmod +x", Category: "shell", Score: 0.7},
	},
	"command not found": {
		{Text: "install via apt", Command: "apt install", Category: "shell", Score: 0.6},
		{Text: "install via pip", Command: "pip install", Category: "python", Score: 0.6},
	},
	"merge conflict": {
		{Text: "show conflicts", Command: "git diff --name-only --diff-filter=U", Category: "git", Score: 0.9},
		{Text: "abort the merge", Command: "git merge --abort", Category: "git", Score: 0.7},
	},
}
