package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Contains(t, out.String(), "Name?")
}

func TestGetSimpleText_EOFReturnsPartialLine(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "lastline", got)
}

func TestGetInt(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("42\n"))
	var out bytes.Buffer
	got, err := GetInt(in, "Id?", &out)
	require.NoError(t, err)
	require.Equal(t, int64(42), got)
}

func TestGetInt_RejectsText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("forty-two\n"))
	var out bytes.Buffer
	_, err := GetInt(in, "Id?", &out)
	require.Error(t, err)
}

func TestGetPassword_UsesSeam(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }
	defer func() { readPassword = orig }()

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	require.Equal(t, []byte("s3cret"), pw)
	require.Contains(t, out.String(), "Enter password")
}

func TestParseID(t *testing.T) {
	id, ok := parseID([]string{"7"}, "deluser")
	require.True(t, ok)
	require.Equal(t, int64(7), id)

	_, ok = parseID(nil, "deluser")
	require.False(t, ok)

	_, ok = parseID([]string{"seven"}, "deluser")
	require.False(t, ok)
}
