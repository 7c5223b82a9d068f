package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/socialpulse/internal/utils"
)

func TestSafeWriteFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "out.csv")
	require.NoError(t, utils.SafeWriteFile(p, []byte("a,b\n")))
	require.NoError(t, utils.SafeWriteFile(p, []byte("c,d\n")))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "c,d\n", string(b))
	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not be left behind")
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"posts": 3})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"posts\": 3\n}", string(b))

	_, err = utils.PrettyJSON(make(chan int))
	assert.Error(t, err)
}

func TestSiblingPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "fixed.csv"), utils.SiblingPath(filepath.Join("data", "raw.csv"), "fixed.csv"))
	assert.Equal(t, "fixed.csv", utils.SiblingPath("raw.csv", "fixed.csv"))
}
