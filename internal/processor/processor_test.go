package processor

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"asd2csv/internal/asd"
	"asd2csv/internal/asdtest"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T, opts asd.Options) (*Processor, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	p, err := NewProcessor(&Config{Options: opts}, log.New(&buf))
	require.NoError(t, err)
	return p, &buf
}

func reflectanceFile(t *testing.T, dir, name string, values ...float64) string {
	t.Helper()
	s := asdtest.New(values...)
	s.DataType = asd.DataTypeReflectance
	return s.Write(t, dir, name)
}

func TestNewProcessor(t *testing.T) {
	_, err := NewProcessor(nil, log.New(&bytes.Buffer{}))
	assert.Error(t, err)

	_, err = NewProcessor(&Config{Options: asd.DefaultOptions()}, nil)
	assert.Error(t, err)

	opts := asd.DefaultOptions()
	opts.SigDig = -1
	_, err = NewProcessor(&Config{Options: opts}, log.New(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestProcessFiles_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	good := reflectanceFile(t, dir, "a.asd", 0.25, 0.5, 0.75)
	bad := filepath.Join(dir, "b.asd")
	require.NoError(t, os.WriteFile(bad, []byte("not an asd file"), 0o644))
	other := reflectanceFile(t, dir, "c.asd", 0.5, 0.5, 0.5)

	p, logs := newTestProcessor(t, asd.DefaultOptions())
	result, err := p.ProcessFiles([]string{good, bad, other})
	require.NoError(t, err)

	records := result.Succeeded()
	require.Len(t, records, 2)
	assert.Equal(t, good, records[0].Filename)
	assert.Equal(t, other, records[1].Filename)

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, bad, failed[0].Filename)
	assert.Equal(t, asd.StageHeader, failed[0].Stage())
	var malformed *asd.MalformedHeaderError
	assert.True(t, errors.As(failed[0].Err, &malformed))
	assert.Contains(t, logs.String(), "b.asd")
}

func TestProcessFiles_AxisMismatch(t *testing.T) {
	dir := t.TempDir()
	first := reflectanceFile(t, dir, "a.asd", 0.1, 0.2, 0.3)
	longer := reflectanceFile(t, dir, "b.asd", 0.1, 0.2, 0.3, 0.4)

	s := asdtest.New(0.1, 0.2, 0.3)
	s.DataType = asd.DataTypeReflectance
	s.WavelengthStart = 400
	shifted := s.Write(t, dir, "c.asd")

	p, _ := newTestProcessor(t, asd.DefaultOptions())
	result, err := p.ProcessFiles([]string{first, longer, shifted})
	require.NoError(t, err)
	require.Len(t, result.Succeeded(), 1)

	failed := result.Failed()
	require.Len(t, failed, 2)
	for _, f := range failed {
		assert.ErrorIs(t, f.Err, ErrAxisMismatch)
		assert.Equal(t, "axis", f.Stage())
		assert.Nil(t, f.Record)
	}
}

func TestProcessFiles_RangeWarning(t *testing.T) {
	dir := t.TempDir()
	path := reflectanceFile(t, dir, "bright.asd", 0.2, 1.5, 0.4)

	opts := asd.DefaultOptions()
	opts.NoRangeErrors = true
	p, logs := newTestProcessor(t, opts)
	result, err := p.ProcessFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, result.Succeeded(), 1)
	assert.Equal(t, 1, result.Succeeded()[0].Range.Count())
	assert.Contains(t, logs.String(), "outside expected range")
}

func TestProcessFiles_Empty(t *testing.T) {
	p, _ := newTestProcessor(t, asd.DefaultOptions())
	_, err := p.ProcessFiles(nil)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestFindInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.asd", "a.ASD", "notes.txt", "c.asd.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.asd"), 0o755))

	files, err := FindInputFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.ASD"), filepath.Join(dir, "b.asd")}, files)

	single := filepath.Join(dir, "notes.txt")
	files, err = FindInputFiles(single)
	require.NoError(t, err)
	assert.Equal(t, []string{single}, files)

	_, err = FindInputFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	_, err = FindInputFiles(t.TempDir())
	assert.ErrorIs(t, err, ErrNoInput)
}
