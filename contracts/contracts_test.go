package contracts

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

func TestReadMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF.
	_, err := Read(_fs)
	require.Error(t, err)

	// Missing manifest.
	_fs[registryDir+"/"+nefName] = &fstest.MapFile{}
	_, err = Read(_fs)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = registryDir + "/" + nefName
		manifestPath = registryDir + "/" + manifestName
	)

	_, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "zero")

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err := read(_fs, []string{registryDir})
	require.NoError(t, err)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err = read(_fs, []string{registryDir})
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = read(_fs, []string{registryDir})
	require.ErrorIs(t, err, errInvalidManifest)
}

func TestReadSuite(t *testing.T) {
	_fs := fstest.MapFS{}

	for _, dir := range suiteContracts {
		_, bNEF := anyValidNEF(t)
		_, bManifest := anyValidManifest(t, dir)

		_fs[dir+"/"+nefName] = &fstest.MapFile{Data: bNEF}
		_fs[dir+"/"+manifestName] = &fstest.MapFile{Data: bManifest}
	}

	s, err := Read(_fs)
	require.NoError(t, err)
	require.Equal(t, registryDir, s.Registry.Manifest.Name)
	require.Equal(t, gatewayDir, s.Gateway.Manifest.Name)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
