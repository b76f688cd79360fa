//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIEndpoint string
	Username    string
	Password    string
	BinaryPath  string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIEndpoint: os.Getenv("FASTSPRING_BASE_URL"),
		Username:    os.Getenv("FASTSPRING_USERNAME"),
		Password:    os.Getenv("FASTSPRING_PASSWORD"),
		BinaryPath:  getBinaryPath(),
		Verbose:     os.Getenv("FASTSPRING_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the fastspring binary
func getBinaryPath() string {
	if path := os.Getenv("FASTSPRING_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../fastspring",
		"./fastspring",
		"../fastspring",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "fastspring"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Username == "" || config.Password == "" {
		t.Skip("FASTSPRING_USERNAME/FASTSPRING_PASSWORD not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("fastspring binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the fastspring binary against an isolated config file
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a fastspring command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a fastspring command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...) //nolint:gosec // test binary path comes from the test environment
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login stores the test credentials in the runner's config file
func (runner *CommandRunner) Login() error {
	args := []string{"login", "--username", runner.config.Username, "--password", runner.config.Password}
	if runner.config.APIEndpoint != "" {
		args = append(args, "--api", runner.config.APIEndpoint)
	}

	_, _, err := runner.Run(args...)

	return err
}

// DecodeJSON parses command output as JSON into a generic value
func DecodeJSON(t *testing.T, output string) interface{} {
	t.Helper()

	var value interface{}
	if err := json.Unmarshal([]byte(output), &value); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, output)
	}

	return value
}
