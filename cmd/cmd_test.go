package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/pb33f/gqlific/config"
	"github.com/pb33f/gqlific/mockgen"
	"github.com/pb33f/gqlific/motor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersBody = `{"data":{"users":[{"id":"1","name":"Alice","active":true},{"id":"2","name":"Bob","active":false}]}}`

// execute runs the command tree with fresh flag values and returns plain stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	verbose, noColor, logFile = false, true, ""
	configPath = filepath.Join(t.TempDir(), "config.yaml")
	workbench = workbenchFlags{seed: 1, maxItems: 5, dictPath: filepath.Join(t.TempDir(), "no-dict"), watch: true}
	tableFilter, tableJSON = "", false
	runFilter, runTable, runJSON, runPlain = "", false, false, false
	harOperation, harTable = "", false
	schemaSearch, schemaType = "", ""
	configForce = false

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "test.log")))

	err := rootCmd.ExecuteContext(context.Background())
	return ansi.Strip(out.String()), err
}

func TestEncodeCommand(t *testing.T) {
	out, err := execute(t, `[{"key":"first","value":"10"},{"key":"","value":"x"},{"key":"tags","value":"[\"a\"]"}]`, "encode")
	require.NoError(t, err)
	assert.JSONEq(t, `{"first":10,"tags":["a"]}`, out)

	_, err = execute(t, `{"not":"a list"}`, "encode")
	assert.Error(t, err)
}

func TestDecodeCommand(t *testing.T) {
	out, err := execute(t, `{"first": 10, "filter": {"active": true}}`, "decode")
	require.NoError(t, err)

	var pairs []motor.KeyValuePair
	require.NoError(t, json.Unmarshal([]byte(out), &pairs))
	require.Len(t, pairs, 2)
	assert.Equal(t, "first", pairs[0].Key)
	assert.Equal(t, "10", pairs[0].Value)
	assert.Equal(t, "filter", pairs[1].Key)
	assert.JSONEq(t, `{"active":true}`, pairs[1].Value)

	_, err = execute(t, `[1,2]`, "decode")
	var notObject *motor.NotObjectError
	assert.ErrorAs(t, err, &notObject)
}

func TestTableCommand(t *testing.T) {
	out, err := execute(t, usersBody, "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "users: 2 rows")

	out, err = execute(t, usersBody, "table", "--json", "--filter", "{data: {users: data.users[?active]}}")
	require.NoError(t, err)

	var doc tableJSONDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "users", doc.Source)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "1", doc.Rows[0].ID)

	out, err = execute(t, `{"data":{"viewer":{"id":"1"}}}`, "table")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to tabulate")

	_, err = execute(t, `{"data":`, "table")
	var parseErr *motor.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "", "run", "--plain")
	require.NoError(t, err)
	assert.JSONEq(t, mockgen.SampleResponse, out)

	out, err = execute(t, "", "run", "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "Charlie Brown")
	assert.Contains(t, out, "[2 items]")

	dir := t.TempDir()
	query := filepath.Join(dir, "q.graphql")
	vars := filepath.Join(dir, "vars.json")
	require.NoError(t, os.WriteFile(query, []byte("query P($first: Int) { products(first: $first) { id title } }"), 0644))
	require.NoError(t, os.WriteFile(vars, []byte(`{"first": 3}`), 0644))

	out, err = execute(t, "", "run", "--query", query, "--variables", vars, "--json")
	require.NoError(t, err)
	var doc tableJSONDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "products", doc.Source)
	assert.Equal(t, []string{"id", "title"}, doc.Columns)
}

func TestRunCommand_Errors(t *testing.T) {
	_, err := execute(t, "", "run", "--env", "nowhere")
	assert.ErrorContains(t, err, `environment "nowhere" is not defined`)

	_, err = execute(t, "", "run", "--query", filepath.Join(t.TempDir(), "missing.graphql"))
	assert.ErrorContains(t, err, "does not exist")

	headers := filepath.Join(t.TempDir(), "headers.json")
	require.NoError(t, os.WriteFile(headers, []byte(`["not", "an", "object"]`), 0644))
	_, err = execute(t, "", "run", "--headers", headers)
	assert.ErrorContains(t, err, "headers")
}

func TestHarCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traffic.har")
	_, err := mockgen.WriteCaptureFile(context.Background(), path, mockgen.CaptureOptions{Count: 4, Seed: 3})
	require.NoError(t, err)

	out, err := execute(t, "", "har", path)
	require.NoError(t, err)
	assert.Contains(t, out, "GetUsersWithPosts")
	assert.Contains(t, out, "4 operations in 4 entries")

	out, err = execute(t, "", "har", path, "--operation", "GetUsersWithPosts", "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "query GetUsersWithPosts")
	assert.Contains(t, out, "Alice Johnson")

	_, err = execute(t, "", "har", path, "--operation", "Nope")
	assert.ErrorContains(t, err, "not found")

	_, err = execute(t, "", "har", filepath.Join(t.TempDir(), "missing.har"))
	assert.ErrorContains(t, err, "invalid HAR file")
}

func TestGenerateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.har")
	out, err := execute(t, "", "generate", "-n", "3", "-o", path, "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Total entries: 3")

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "User")
	assert.Contains(t, out, "query root")
	assert.NotContains(t, out, "__Schema")

	out, err = execute(t, "", "schema", "--type", "User")
	require.NoError(t, err)
	assert.Contains(t, out, "email: String!")

	out, err = execute(t, "", "schema", "--search", "zzzzqqq")
	require.NoError(t, err)
	assert.Contains(t, out, "no matching types")

	_, err = execute(t, "", "schema", "--type", "Nope")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	out, err := execute(t, "", "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, config.SchemaID)

	dir := t.TempDir()
	path := filepath.Join(dir, "gqlific.yaml")

	_, err = execute(t, "", "config", "init", "--config", path)
	require.NoError(t, err)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Active, cfg.Active)

	_, err = execute(t, "", "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "", "config", "init", "--config", path, "--force")
	assert.NoError(t, err)

	out, err = execute(t, "", "config", "check", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 1 environments (active mock)")

	out, err = execute(t, "", "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    dev")
}

func TestValidateFile(t *testing.T) {
	assert.Error(t, ValidateFile("HAR", ""))
	assert.ErrorContains(t, ValidateFile("HAR", t.TempDir()), "directory")
	assert.ErrorContains(t, ValidateFile("HAR", filepath.Join(t.TempDir(), "x")), "does not exist")
}
