package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"clipforge/internal/engine"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.InitConsoleLogger()
	os.Exit(m.Run())
}

func writeOperationFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "op.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReadOperationResolvesAliases(t *testing.T) {
	path := writeOperationFile(t, `{"kind":"customText","params":{"text":"hi"}}`)

	op, err := readOperation([]string{path})
	require.NoError(t, err)
	assert.Equal(t, engine.KindAddText, op.Kind)
}

func TestReadOperationUnknownKind(t *testing.T) {
	path := writeOperationFile(t, `{"kind":"trmi","params":{}}`)

	_, err := readOperation([]string{path})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnknownOperation, apperrors.GetCode(err))
}

func TestValidateCmd(t *testing.T) {
	path := writeOperationFile(t, `{"kind":"trim","params":{"start":1,"end":2.5}}`)

	out, err := runCommand(t, validateCmd(), path)
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)
}

func TestValidateCmdInvalidOperation(t *testing.T) {
	path := writeOperationFile(t, `{"kind":"trim","params":{}}`)

	out, err := runCommand(t, validateCmd(), path)
	require.Error(t, err, "invalid operation should exit non-zero")
	assert.Contains(t, out, `"valid": false`)
	assert.Contains(t, out, "start")
}

func TestCompileCmd(t *testing.T) {
	path := writeOperationFile(t, `{"kind":"colorGrade","params":{"preset":"vintage"}}`)

	out, err := runCommand(t, compileCmd(), path, "--input", "in.mp4", "--output", "out.mp4")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "colorGrade"`)
	assert.Contains(t, out, "eq=")
	assert.Contains(t, out, `"in.mp4"`)
	assert.Contains(t, out, `"-vf"`)
}

func TestCompileCmdRejectsRemoveClip(t *testing.T) {
	path := writeOperationFile(t, `{"kind":"removeClip","params":{"startTime":1,"endTime":2}}`)

	_, err := runCommand(t, compileCmd(), path)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeCompileFailed, apperrors.GetCode(err))
}

func TestPreviewCmd(t *testing.T) {
	path := writeOperationFile(t, `{"kind":"adjustSpeed","params":{"speed":2}}`)

	out, err := runCommand(t, previewCmd(), path, "--cloud", "demo", "--public-id", "sample")
	require.NoError(t, err)
	assert.Contains(t, out, `"transformation"`)
	assert.Contains(t, out, "/demo/video/upload/")
}

func TestPlanCmd(t *testing.T) {
	path := writeOperationFile(t, `{"kind":"removeClip","params":{"startTime":10,"endTime":20}}`)

	out, err := runCommand(t, planCmd(), path, "--duration", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "concat=n=2")
	assert.Contains(t, out, `"filter_complex"`)
}

func TestPlanCmdRejectsOtherKinds(t *testing.T) {
	path := writeOperationFile(t, `{"kind":"trim","params":{"start":1}}`)

	_, err := runCommand(t, planCmd(), path, "--duration", "60")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "removeClip")
}

func TestTemplatesCmd(t *testing.T) {
	out, err := runCommand(t, templatesCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "cinematic-look")
	assert.Contains(t, out, "social-media-pack")
}

func TestTemplatesCmdById(t *testing.T) {
	out, err := runCommand(t, templatesCmd(), "--id", "cinematic-look")
	require.NoError(t, err)
	assert.Contains(t, out, `"operations"`)
	assert.Contains(t, out, "colorGrade")
}

func TestTemplatesCmdUnknownId(t *testing.T) {
	_, err := runCommand(t, templatesCmd(), "--id", "nope")
	require.Error(t, err)
}
