package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coverdesk/pkg/coverdesk"
)

// testEnv runs coverdesk commands in-process against isolated directories.
type testEnv struct {
	t         *testing.T
	ConfigDir string
	DataDir   string
}

type result struct {
	Stdout string
	Stderr string
	Code   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	for _, k := range []string{"COVERDESK_MODE", "COVERDESK_CONFIG_DIR", "COVERDESK_DATA_DIR", "COVERDESK_LOG_LEVEL", "COVERDESK_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	t.Setenv("COVERDESK_BCRYPT_COST", "4")
	return &testEnv{
		t:         t,
		ConfigDir: filepath.Join(dir, "config"),
		DataDir:   filepath.Join(dir, "data"),
	}
}

// runWithInput executes one command line with the given stdin.
func (e *testEnv) runWithInput(input string, args ...string) result {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(input))
	full := append([]string{"--config-dir", e.ConfigDir, "--data-dir", e.DataDir}, args...)
	code := run(root, full, &stderr)
	return result{Stdout: stdout.String(), Stderr: stderr.String(), Code: code}
}

func (e *testEnv) run(args ...string) result {
	e.t.Helper()
	return e.runWithInput("", args...)
}

// mustRun fails the test if the command does not succeed.
func (e *testEnv) mustRun(args ...string) result {
	e.t.Helper()
	r := e.run(args...)
	require.Equal(e.t, exitSuccess, r.Code, "coverdesk %v\nstderr: %s", args, r.Stderr)
	return r
}

func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

func (e *testEnv) readData(name string) string {
	e.t.Helper()
	data, err := os.ReadFile(filepath.Join(e.DataDir, name))
	require.NoError(e.t, err)
	return string(data)
}

type userJSON struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Credential string `json:"credential"`
}

type policyJSON struct {
	Variant string         `json:"variant"`
	Policy  map[string]any `json:"policy"`
	Quote   *float64       `json:"next_year_premium"`
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	r := env.mustRun("version")
	assert.Contains(t, r.Stdout, "coverdesk v"+coverdesk.Version)

	r = env.mustRun("--json", "version")
	got := parseJSON[map[string]string](t, r.Stdout)
	assert.Equal(t, coverdesk.Version, got["version"])
	assert.Equal(t, coverdesk.ModulePath, got["module"])
}

func TestInitCreatesConfigAndData(t *testing.T) {
	env := newTestEnv(t)

	r := env.mustRun("init", "--admin", "admin", "--password", "secret")
	assert.Contains(t, r.Stdout, "coverdesk initialized")
	assert.Contains(t, r.Stdout, "created ADMIN user admin")

	assert.FileExists(t, filepath.Join(env.ConfigDir, "config.yaml"))
	assert.Equal(t, "", env.readData("policies.txt"))

	users := env.readData("users.txt")
	assert.True(t, strings.HasPrefix(users, "admin;$2a$04$"), users)
	assert.True(t, strings.HasSuffix(users, ";ADMIN\n"), users)
}

func TestInitAdminRequiresPassword(t *testing.T) {
	env := newTestEnv(t)
	r := env.run("init", "--admin", "admin")
	assert.Equal(t, exitUserError, r.Code)
	assert.Contains(t, r.Stderr, "--admin requires --password")
}

func TestInitIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--admin", "admin", "--password", "secret")
	env.mustRun("init")

	r := env.mustRun("--json", "user", "list")
	assert.Len(t, parseJSON[[]userJSON](t, r.Stdout), 1)
}

func TestUserLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--admin", "admin", "--password", "secret")

	r := env.mustRun("user", "add", "maria", "--password", "pw1234", "--role", "management")
	assert.Contains(t, r.Stdout, "added user maria (MANAGEMENT)")
	env.mustRun("user", "add", "luis", "--password", "pw1234")

	r = env.mustRun("--json", "user", "list")
	users := parseJSON[[]userJSON](t, r.Stdout)
	require.Len(t, users, 3)
	assert.Equal(t, "luis", users[2].Name)
	assert.Equal(t, "VIEW", users[2].Role)
	for _, u := range users {
		assert.Empty(t, u.Credential, "credentials must not be printed")
	}

	r = env.mustRun("user", "list", "--role", "VIEW")
	assert.Equal(t, "luis\tVIEW\n", r.Stdout)

	env.mustRun("user", "passwd", "luis", "--password", "newpass")
	env.mustRun("user", "remove", "maria")

	r = env.mustRun("user", "list")
	assert.Equal(t, "admin\tADMIN\nluis\tVIEW\n", r.Stdout)
	assert.NotContains(t, env.readData("users.txt"), "maria")
}

func TestUserErrors(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--admin", "admin", "--password", "secret")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "duplicate", args: []string{"user", "add", "admin", "--password", "other"}},
		{name: "short password", args: []string{"user", "add", "ana", "--password", "abc"}},
		{name: "unknown role", args: []string{"user", "add", "ana", "--password", "abcd", "--role", "ROOT"}},
		{name: "remove missing", args: []string{"user", "remove", "nobody"}, want: "record not found"},
		{name: "remove last admin", args: []string{"user", "remove", "admin"}},
		{name: "unknown command", args: []string{"frobnicate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := env.run(tt.args...)
			assert.Equal(t, exitUserError, r.Code, r.Stderr)
			if tt.want != "" {
				assert.Contains(t, r.Stderr, tt.want)
			}
		})
	}

	r := env.mustRun("user", "list")
	assert.Equal(t, "admin\tADMIN\n", r.Stdout)
}

func TestPolicyLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")

	r := env.mustRun("policy", "add", "home",
		"--holder", "12345678z", "--premium", "300", "--area", "90",
		"--contents", "20000", "--address", "Calle Mayor 1", "--year", "2000")
	assert.Equal(t, "contracted home policy 100001\n", r.Stdout)

	r = env.mustRun("--json", "policy", "add", "auto",
		"--holder", "87654321X", "--premium", "100", "--description", "Seat Ibiza",
		"--fuel", "petrol", "--vehicle", "coche", "--coverage", "all-risk", "--claims", "2")
	auto := parseJSON[policyJSON](t, r.Stdout)
	assert.Equal(t, "auto", auto.Variant)
	assert.EqualValues(t, 400001, auto.Policy["id"])
	assert.Equal(t, "CAR", auto.Policy["vehicle"])
	assert.Equal(t, "ALL_RISK", auto.Policy["coverage"])

	r = env.mustRun("policy", "add", "life",
		"--holder", "22222222J", "--premium", "50", "--birth-date", "01/02/1980",
		"--risk", "medium", "--payout", "100000")
	assert.Equal(t, "contracted life policy 800001\n", r.Stdout)

	assert.Equal(t,
		"100001;12345678Z;300;90;20000;Calle Mayor 1;2000;SeguroHogar\n"+
			"400001;87654321X;100;Seat Ibiza;petrol;CAR;ALL_RISK;false;2;SeguroAuto\n"+
			"800001;22222222J;50;01/02/1980;MEDIUM;100000;SeguroVida\n",
		env.readData("policies.txt"))

	r = env.mustRun("--json", "policy", "list")
	assert.Len(t, parseJSON[[]policyJSON](t, r.Stdout), 3)

	r = env.mustRun("--json", "policy", "list", "--variant", "life")
	lives := parseJSON[[]policyJSON](t, r.Stdout)
	require.Len(t, lives, 1)
	assert.Equal(t, "1980-02-01T00:00:00Z", lives[0].Policy["birth_date"])
	assert.Equal(t, "MEDIUM", lives[0].Policy["risk"])

	// 100 * (1 + 0.03 + 2 claims * 2%)
	r = env.mustRun("--json", "policy", "show", "400001")
	shown := parseJSON[policyJSON](t, r.Stdout)
	require.NotNil(t, shown.Quote)
	assert.InDelta(t, 107.0, *shown.Quote, 1e-9)

	r = env.mustRun("policy", "show", "400001", "--rate", "0")
	assert.Contains(t, r.Stdout, "next year premium: 104.00")

	// Each command reloads the file, so ids continue from the highest stored.
	r = env.mustRun("policy", "add", "home",
		"--holder", "12345678Z", "--premium", "10", "--area", "1",
		"--contents", "1", "--address", "A", "--year", "2001")
	assert.Equal(t, "contracted home policy 100002\n", r.Stdout)

	env.mustRun("policy", "remove", "100001")
	r = env.mustRun("--json", "policy", "list", "--variant", "home")
	homes := parseJSON[[]policyJSON](t, r.Stdout)
	require.Len(t, homes, 1)
	assert.EqualValues(t, 100002, homes[0].Policy["id"])
	assert.NotContains(t, env.readData("policies.txt"), "100001;")
}

func TestPolicyErrors(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")

	tests := []struct {
		name string
		args []string
	}{
		{name: "bad holder", args: []string{"policy", "add", "home", "--holder", "1234", "--premium", "1", "--area", "1", "--contents", "1", "--address", "A", "--year", "2000"}},
		{name: "zero premium", args: []string{"policy", "add", "home", "--holder", "12345678Z", "--premium", "0", "--area", "1", "--contents", "1", "--address", "A", "--year", "2000"}},
		{name: "delimiter in address", args: []string{"policy", "add", "home", "--holder", "12345678Z", "--premium", "1", "--area", "1", "--contents", "1", "--address", "A;B", "--year", "2000"}},
		{name: "unknown vehicle", args: []string{"policy", "add", "auto", "--holder", "12345678Z", "--premium", "1", "--vehicle", "bus"}},
		{name: "bad birth date", args: []string{"policy", "add", "life", "--holder", "12345678Z", "--premium", "1", "--birth-date", "1980-02-01", "--payout", "1"}},
		{name: "missing holder", args: []string{"policy", "add", "life", "--premium", "1", "--birth-date", "01/02/1980"}},
		{name: "unknown variant", args: []string{"policy", "list", "--variant", "pet"}},
		{name: "bad id", args: []string{"policy", "show", "abc"}},
		{name: "show missing", args: []string{"policy", "show", "100001"}},
		{name: "remove missing", args: []string{"policy", "remove", "100001"}},
		{name: "negative rate", args: []string{"policy", "show", "100001", "--rate", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := env.run(tt.args...)
			assert.Equal(t, exitUserError, r.Code, r.Stderr)
		})
	}
	assert.Empty(t, env.readData("policies.txt"))
}

func TestMemoryModeDoesNotPersist(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")

	env.mustRun("--mode", "memory", "policy", "add", "home",
		"--holder", "12345678Z", "--premium", "10", "--area", "1",
		"--contents", "1", "--address", "A", "--year", "2001")
	assert.Empty(t, env.readData("policies.txt"))
}

func TestSystemErrorsExitTwo(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("--mode", "cloud", "user", "list")
	assert.Equal(t, exitSysError, r.Code)
	assert.Contains(t, r.Stderr, "unknown storage mode")

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	r = env.run("--data-dir", filepath.Join(blocker, "data"), "user", "list")
	assert.Equal(t, exitSysError, r.Code, r.Stderr)
}

func TestConfigFileAndEnvironment(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")

	cfg := "users_file: people.txt\npolicies_file: contracts.txt\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.ConfigDir, "config.yaml"), []byte(cfg), 0o644))

	env.mustRun("user", "add", "admin", "--password", "secret", "--role", "ADMIN")
	assert.Contains(t, env.readData("people.txt"), "admin;")

	t.Setenv("COVERDESK_POLICIES_FILE", "env-policies.txt")
	env.mustRun("policy", "add", "home",
		"--holder", "12345678Z", "--premium", "10", "--area", "1",
		"--contents", "1", "--address", "A", "--year", "2001")
	assert.Contains(t, env.readData("env-policies.txt"), "SeguroHogar")

	t.Setenv("COVERDESK_LOG_LEVEL", "loud")
	r := env.run("user", "list")
	assert.Equal(t, exitSysError, r.Code)
}

func TestDebugLogShowsSessionSettings(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")

	t.Setenv("COVERDESK_LOG_LEVEL", "debug")
	r := env.mustRun("user", "list")
	assert.Contains(t, r.Stderr, "opening session")
	assert.Contains(t, r.Stderr, "bcrypt_cost=4")
	assert.Contains(t, r.Stderr, "mode=file")
}

func TestDataDirFromConfigBeatsEnvironment(t *testing.T) {
	env := newTestEnv(t)
	fromConfig := filepath.Join(t.TempDir(), "from-config")
	fromEnv := filepath.Join(t.TempDir(), "from-env")

	require.NoError(t, os.MkdirAll(env.ConfigDir, 0o755))
	cfg := "data_dir: " + fromConfig + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.ConfigDir, "config.yaml"), []byte(cfg), 0o644))
	t.Setenv("COVERDESK_DATA_DIR", fromEnv)

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := run(root, []string{"--config-dir", env.ConfigDir, "--json", "init"}, &stderr)
	require.Equal(t, exitSuccess, code, stderr.String())

	got := parseJSON[map[string]string](t, stdout.String())
	assert.Equal(t, fromConfig, got["data_dir"])
	assert.FileExists(t, filepath.Join(fromConfig, "users.txt"))
	assert.NoDirExists(t, fromEnv)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "--admin", "admin", "--password", "secret")
	env.mustRun("policy", "add", "life",
		"--holder", "22222222J", "--premium", "50", "--birth-date", "01/02/1980",
		"--risk", "LOW", "--payout", "1000")

	r := env.mustRun("export", "sqlite")
	assert.Contains(t, r.Stdout, "exported 1 users and 1 policies")
	assert.FileExists(t, filepath.Join(env.DataDir, "coverdesk.db"))

	out := filepath.Join(t.TempDir(), "book.xlsx")
	r = env.mustRun("--json", "export", "xlsx", "--out", out)
	got := parseJSON[map[string]any](t, r.Stdout)
	assert.Equal(t, out, got["path"])
	assert.Equal(t, "xlsx", got["format"])
	assert.EqualValues(t, 1, got["policies"])
	assert.NotEmpty(t, got["id"])
	assert.FileExists(t, out)
}

func TestRunInteractiveBootstrap(t *testing.T) {
	env := newTestEnv(t)

	// mode 2 (file), create admin, log in, exit
	input := "2\ny\nadmin\nsecret\nadmin\nsecret\n3\n"
	r := env.runWithInput(input, "run")
	require.Equal(t, exitSuccess, r.Code, r.Stderr)
	assert.Contains(t, r.Stdout, "User admin created.")
	assert.Contains(t, r.Stdout, "Access granted. Welcome admin!")

	r = env.mustRun("user", "list")
	assert.Equal(t, "admin\tADMIN\n", r.Stdout)
}

func TestRunEndsQuietlyOnEOF(t *testing.T) {
	env := newTestEnv(t)
	r := env.runWithInput("", "run")
	assert.Equal(t, exitSuccess, r.Code, r.Stderr)
}
