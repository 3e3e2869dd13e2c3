/*
Package contracts provides access to compiled IPC contracts.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	registryDir = "registry"
	gatewayDir  = "gateway"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups compiled artifacts of a single Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Suite groups compiled contracts of the IPC suite. Contracts are listed in
// the order they're supposed to be deployed starting from the Registry.
type Suite struct {
	Registry Contract
	Gateway  Contract
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	suiteContracts = []string{
		registryDir,
		gatewayDir,
	}
)

// Read loads the compiled IPC contract suite from the given file system, for
// example os.DirFS pointing at the build output directory. Each contract is
// expected in its own subdirectory as a contract.nef and manifest.json pair,
// the way neo-go compiler produces them.
func Read(_fs fs.FS) (Suite, error) {
	cs, err := read(_fs, suiteContracts)
	if err != nil {
		return Suite{}, err
	}

	return Suite{Registry: cs[0], Gateway: cs[1]}, nil
}

func read(_fs fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(_fs, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS uses "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
