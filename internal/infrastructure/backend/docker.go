package backend

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/mwiatr/verba/internal/domain"
	"github.com/mwiatr/verba/internal/ports"
)

const dockerTimeout = 2 * time.Minute

var dockerNaturals = []natural{
	{"containers", "docker ps -a"},
	{"kontenery", "docker ps -a"},
	{"pokaż kontenery", "docker ps -a"},
	{"running containers", "docker ps"},
	{"działające kontenery", "docker ps"},
	{"laufende container", "docker ps"},
	{"images", "docker images"},
	{"obrazy", "docker images"},
	{"pokaż obrazy", "docker images"},
	{"build", "docker build"},
	{"zbuduj", "docker build"},
	{"run", "docker run"},
	{"uruchom", "docker run"},
	{"stop", "docker stop"},
	{"zatrzymaj", "docker stop"},
	{"remove container", "docker rm"},
	{"usuń kontener", "docker rm"},
	{"remove image", "docker rmi"},
	{"usuń obraz", "docker rmi"},
	{"logs", "docker logs"},
	{"logi", "docker logs"},
	{"compose up", "docker compose up -d"},
	{"start the services", "docker compose up -d"},
	{"uruchom serwisy", "docker compose up -d"},
	{"starte die dienste", "docker compose up -d"},
	{"compose down", "docker compose down"},
	{"stop the services", "docker compose down"},
	{"zatrzymaj serwisy", "docker compose down"},
	{"compose logs", "docker compose logs -f"},
	{"logi serwisów", "docker compose logs -f"},
	{"compose restart", "docker compose restart"},
	{"restartuj serwisy", "docker compose restart"},
	{"compose ps", "docker compose ps"},
	{"status serwisów", "docker compose ps"},
}

// DockerExecutor runs docker and docker compose commands.
type DockerExecutor struct {
	dir string
}

// NewDockerExecutor builds an executor rooted at dir.
func NewDockerExecutor(dir string) *DockerExecutor {
	return &DockerExecutor{dir: dir}
}

// Available reports whether the docker client is installed.
func (e *DockerExecutor) Available() bool {
	_, err := exec.LookPath("docker")
	return err == nil
}

// RunNatural resolves a docker phrase and executes it. Raw "docker ..."
// input passes straight through.
func (e *DockerExecutor) RunNatural(ctx context.Context, text string) domain.ExecutionOutcome {
	if !e.Available() {
		return failedOutcome("docker", "docker is not installed")
	}
	lower := strings.ToLower(strings.TrimSpace(text))

	if cmd, rest, ok := lookupNatural(dockerNaturals, lower); ok {
		args := strings.Fields(strings.TrimPrefix(cmd, "docker "))
		if rest != "" {
			args = append(args, rest)
		}
		return runCommand(ctx, e.dir, dockerTimeout, "docker", args...)
	}

	if strings.HasPrefix(lower, "docker ") {
		return runCommand(ctx, e.dir, dockerTimeout, "docker", strings.Fields(lower)[1:]...)
	}

	return failedOutcome("docker", "unrecognized docker request: "+text)
}

var _ ports.DockerRunner = (*DockerExecutor)(nil)
