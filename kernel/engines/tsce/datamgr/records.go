package datamgr

import (
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/lib/utils"
)

// DataAttribute is one named value read from the ledger.
type DataAttribute struct {
	Name  string
	Value string
}

type UserScopeRecord struct {
	VarName  string `mapstructure:"var_name"`
	VarValue string `mapstructure:"var_value"`
	VarType  string `mapstructure:"var_type"`
	VarOwner string `mapstructure:"var_owner"`
	UpTime   uint64 `mapstructure:"up_time"`
	UpBlock  uint64 `mapstructure:"up_block"`
	// 非空时为一个tag文档，修改该记录前需满足其<update>条件
	Tag string `mapstructure:"tag"`
	Pid string `mapstructure:"pid"`
}

func (r *UserScopeRecord) Kind() def.Kind {
	return kindOf(r.VarType)
}

type ContractScopeRecord struct {
	ContractId string `mapstructure:"contract_id"`
	VarName    string `mapstructure:"var_name"`
	VarValue   string `mapstructure:"var_value"`
	VarType    string `mapstructure:"var_type"`
	VarInfo    string `mapstructure:"var_info"`
	UpTime     uint64 `mapstructure:"up_time"`
	UpBlock    uint64 `mapstructure:"up_block"`
	Pid        string `mapstructure:"pid"`
}

func (r *ContractScopeRecord) Kind() def.Kind {
	return kindOf(r.VarType)
}

type UserAttributeRecord struct {
	Uid          string `mapstructure:"uid"`
	RegisterDay  string `mapstructure:"register_day"`
	RegisterCode string `mapstructure:"register_code"`
	Gender       string `mapstructure:"gender"`
	IscType      string `mapstructure:"isc_type"`
	IscCode      string `mapstructure:"isc_code"`
	Location     string `mapstructure:"location"`
	AgeLimit     int    `mapstructure:"age_limit"`
}

type UserCertRecord struct {
	Uid string `mapstructure:"uid"`
	Sn  string `mapstructure:"sn"`
	// 证书有效期，after/before列为unix秒
	NotBefore uint64 `mapstructure:"after"`
	NotAfter  uint64 `mapstructure:"before"`
	X509      string `mapstructure:"cert"`
}

func kindOf(name string) def.Kind {
	if k, ok := def.KindFromName(name); ok {
		return k
	}
	return def.KindNONE
}

// decodeRecord fills out from a ledger row. Numeric columns are read
// leniently, anything unparsable becomes 0.
func decodeRecord(row map[string]string, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: lenientNumberHook,
		Result:     out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(row)
}

var lenientNumberHook mapstructure.DecodeHookFuncType = func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s := data.(string)
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return utils.ParseInt(s), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := utils.ParseInt(s)
		if v < 0 {
			return uint64(0), nil
		}
		return uint64(v), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, nil
		}
		return b, nil
	}
	return data, nil
}
