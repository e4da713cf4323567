package tledger

import (
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Fixture is a yaml description of ledger content, used to seed a store
// before running blocks against it.
type Fixture struct {
	World         Row                   `yaml:"world"`
	Chain         Row                   `yaml:"chain"`
	Contracts     []ContractFixture     `yaml:"contracts"`
	Users         []UserFixture         `yaml:"users"`
	ContractScope []ContractVarsFixture `yaml:"contractScope"`

	dir string
}

type ContractFixture struct {
	Cid string `yaml:"cid"`
	Doc string `yaml:"doc"`
	// 相对于fixture文件所在目录，doc为空时读取
	File string `yaml:"file"`
}

type UserFixture struct {
	Uid   string `yaml:"uid"`
	Info  Row    `yaml:"info"`
	Certs []Row  `yaml:"certs"`
	Scope []Row  `yaml:"scope"`
}

type ContractVarsFixture struct {
	Cid  string `yaml:"cid"`
	Vars []Row  `yaml:"vars"`
}

func LoadFixture(path string) (*Fixture, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read fixture")
	}
	f := &Fixture{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrapf(err, "parse fixture %s", path)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Import writes f into the ledger in one batch and returns the number of
// records written.
func (t *Ledger) Import(f *Fixture) (int, error) {
	batch := t.db.NewBatch()
	w := NewWriter(batch)
	n := 0
	put := func(err error) error {
		if err == nil {
			n++
		}
		return err
	}

	if len(f.World) > 0 {
		if err := put(w.PutWorld(f.World)); err != nil {
			return 0, errors.Wrap(err, "world")
		}
	}
	if len(f.Chain) > 0 {
		if err := put(w.PutChain(f.Chain)); err != nil {
			return 0, errors.Wrap(err, "chain")
		}
	}
	for _, c := range f.Contracts {
		doc, err := c.document(f.dir)
		if err != nil {
			return 0, err
		}
		if err := put(w.PutContract(c.Cid, doc)); err != nil {
			return 0, errors.Wrapf(err, "contract %s", c.Cid)
		}
	}
	for _, u := range f.Users {
		if len(u.Info) > 0 {
			if err := put(w.PutUserInfo(u.Uid, u.Info)); err != nil {
				return 0, errors.Wrapf(err, "user %s", u.Uid)
			}
		}
		for _, c := range u.Certs {
			if err := put(w.PutUserCert(u.Uid, c)); err != nil {
				return 0, errors.Wrapf(err, "user %s cert", u.Uid)
			}
		}
		for _, v := range u.Scope {
			if err := put(w.PutUserScope(u.Uid, v)); err != nil {
				return 0, errors.Wrapf(err, "user %s scope", u.Uid)
			}
		}
	}
	for _, cs := range f.ContractScope {
		for _, v := range cs.Vars {
			if err := put(w.PutContractScope(cs.Cid, v)); err != nil {
				return 0, errors.Wrapf(err, "contract %s scope", cs.Cid)
			}
		}
	}

	if err := batch.Write(); err != nil {
		return 0, errors.Wrap(err, "write batch")
	}
	t.log.Info("fixture imported", "records", n)
	return n, nil
}

func (c ContractFixture) document(dir string) (string, error) {
	if c.Doc != "" || c.File == "" {
		return c.Doc, nil
	}
	path := c.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read contract %s", c.Cid)
	}
	return string(data), nil
}
