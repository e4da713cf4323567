package cmd

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tethys/tethyscore/kernel/engines/tsce"
	"github.com/tethys/tethyscore/kernel/engines/tsce/chain"
)

const (
	userId   = "5g9CMGLSXbNAKJMbWqBNp7rm78BJCMKhLzZVukBNGHSF"
	receiver = "TQGx1Y4s1LmUX8HdzwBT9KyQxuwvnJqq8mbW5Ta7Lx6Q"
)

// 在临时目录下准备conf，返回env.yaml路径
func prepareRoot(t *testing.T) string {
	root := t.TempDir()
	confDir := filepath.Join(root, "conf")
	require.NoError(t, os.MkdirAll(confDir, 0755))

	files := map[string]string{
		"env.yaml":    "confDir: conf\ndataDir: data\nlogDir: logs\n",
		"engine.yaml": "minUserFee: 10\nnumWorkers: 2\nparallel: true\n",
		"ledger.yaml": "kvEngineType: leveldb\nstorageType: single\ndataPath: ledger\n",
		"log.yaml":    "module: tsce\nfilename: tsce\nconsole: false\nlevel: info\n",
	}
	for name, content := range files {
		require.NoError(t, ioutil.WriteFile(filepath.Join(confDir, name), []byte(content), 0644))
	}
	return filepath.Join(confDir, "env.yaml")
}

func writeBlock(t *testing.T, dir string) string {
	tx := &chain.Transaction{
		TxId: "tx-1",
		Time: "1559191460",
		Body: chain.TxBody{
			Cid:      "VALUE-TRANSFER::" + userId + "::SEOUL@KR::TETHYS19",
			Receiver: receiver,
			Fee:      "20",
			Input: chain.Input{{
				{"amount": "10"},
				{"unit": "THY"},
				{"pid": "8CJ8YhBwwgNGKAdzGl1qkKstJi+rUQ7ow8gMHIF3RHU="},
				{"tag": ""},
			}},
		},
		User: chain.Signer{Id: userId, Pk: "pk"},
	}
	blk, err := chain.NewBlock(chain.BlockHeader{Id: "blk-9", Height: "9", Chain: "SEOUL@KR"}, tx)
	require.NoError(t, err)
	data, err := json.Marshal(blk)
	require.NoError(t, err)

	path := filepath.Join(dir, "block.json")
	require.NoError(t, ioutil.WriteFile(path, data, 0644))
	return path
}

func TestImportAndRun(t *testing.T) {
	envPath := prepareRoot(t)
	fixture, err := filepath.Abs("../../../bcs/ledger/tledger/testdata/fixture.yaml")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	require.NoError(t, ImportFixture(envPath, fixture, out))
	assert.Equal(t, "imported 11 records\n", out.String())

	out.Reset()
	blockPath := writeBlock(t, t.TempDir())
	require.NoError(t, RunBlock(envPath, blockPath, out))

	res := &tsce.BlockResult{}
	require.NoError(t, json.Unmarshal(out.Bytes(), res))
	assert.Equal(t, "blk-9", res.Block.Id)
	require.Len(t, res.Results, 1)
	assert.True(t, res.Results[0].Status, res.Results[0].Info)
	assert.Equal(t, "20", res.Results[0].Fee.User)
}

func TestRunErrors(t *testing.T) {
	out := &bytes.Buffer{}
	assert.Error(t, RunBlock("no/such/env.yaml", "block.json", out))

	envPath := prepareRoot(t)
	assert.Error(t, RunBlock(envPath, "no/such/block.json", out))
	assert.Error(t, ImportFixture(envPath, "no/such/fixture.yaml", out))
}

func TestCommands(t *testing.T) {
	out := &bytes.Buffer{}
	versionCmd := GetVersionCmd().GetCmd()
	versionCmd.SetOut(out)
	versionCmd.SetArgs([]string{})
	require.NoError(t, versionCmd.Execute())
	assert.Equal(t, Version()+"\n", out.String())

	ledgerCmd := GetLedgerCmd().GetCmd()
	require.Len(t, ledgerCmd.Commands(), 1)
	assert.Equal(t, "import", ledgerCmd.Commands()[0].Name())

	runCmd := GetRunCmd().GetCmd()
	assert.NotNil(t, runCmd.Flags().Lookup("block"))
	assert.NotNil(t, runCmd.Flags().Lookup("out"))
}
