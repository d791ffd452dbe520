package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalFormat(t *testing.T) {
	var m Manifest
	m.Add("12.jpg")
	m.Add("12-1700000000.jpg")

	data, err := m.Marshal()
	require.NoError(t, err)

	expected := "[\n" +
		"    {\n" +
		"        \"file_name\": \"12.jpg\",\n" +
		"        \"size\": \"base\"\n" +
		"    },\n" +
		"    {\n" +
		"        \"file_name\": \"12-1700000000.jpg\",\n" +
		"        \"size\": \"base\"\n" +
		"    }\n" +
		"]"
	assert.Equal(t, expected, string(data))
}

func TestMarshalEmpty(t *testing.T) {
	data, err := Manifest(nil).Marshal()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestMarshalKeepsNonASCII(t *testing.T) {
	m := Manifest{NewEntry("фото <1>&.jpg")}

	data, err := m.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"фото <1>&.jpg"`)
	assert.NotContains(t, string(data), `\u`)
}

func TestLoadRoundTrip(t *testing.T) {
	m := Manifest{NewEntry("0.jpg"), NewEntry("3.jpg")}
	data, err := m.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), FileName(time.Unix(1700000000, 0)))
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
	assert.Equal(t, []string{"0.jpg", "3.jpg"}, loaded.FileNames())

	_, err = Unmarshal([]byte("{"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	ts := time.Unix(1700000123, 999)
	name := FileName(ts)
	assert.Equal(t, "backup 1700000123.json", name)

	matched, err := filepath.Match(FilePattern, name)
	require.NoError(t, err)
	assert.True(t, matched)

	parsed, ok := ParseFileName(name)
	require.True(t, ok)
	assert.Equal(t, int64(1700000123), parsed.Unix())

	for _, bad := range []string{"backup x.json", "report 1.json", "backup 1.txt"} {
		_, ok := ParseFileName(bad)
		assert.False(t, ok, bad)
	}
}
