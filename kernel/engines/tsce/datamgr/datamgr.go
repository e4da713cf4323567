// Package datamgr resolves world, chain, identity and scoped variables for
// one runner. It owns the runner's Datamap and caches ledger answers at
// three levels: raw query results, derived scope tables, identity rows.
package datamgr

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/fxamacker/cbor/v2"

	"github.com/tethys/tethyscore/kernel/engines/tsce/datamap"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/lib/logs"
	"github.com/tethys/tethyscore/lib/metrics"
	"github.com/tethys/tethyscore/lib/utils"
)

const AllNames = "*"

var queryKeyMode cbor.EncMode

func init() {
	var err error
	queryKeyMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// DataManager is not safe for concurrent use.
type DataManager struct {
	log    logs.Logger
	ledger Ledger
	dm     *datamap.Datamap

	keycName   string
	queryCache map[string]*Result

	// scopeKey(uid, var_name) -> []*UserScopeRecord, ordered for "*" iteration
	userScope *redblacktree.Tree
	// scopeKey(cid, var_name) -> *ContractScopeRecord
	contractScope *redblacktree.Tree

	userAttr map[string][]DataAttribute
	userCert map[string][]UserCertRecord
}

func NewDataManager(ledger Ledger, log logs.Logger) *DataManager {
	if log == nil {
		log = logs.NewNopLogger()
	}
	return &DataManager{
		log:           log,
		ledger:        ledger,
		dm:            datamap.New(),
		keycName:      def.DefaultKeyCurrency,
		queryCache:    make(map[string]*Result),
		userScope:     redblacktree.NewWithStringComparator(),
		contractScope: redblacktree.NewWithStringComparator(),
		userAttr:      make(map[string][]DataAttribute),
		userCert:      make(map[string][]UserCertRecord),
	}
}

func (t *DataManager) SetLogger(log logs.Logger) {
	if log != nil {
		t.log = log
	}
}

func (t *DataManager) Datamap() *datamap.Datamap {
	return t.dm
}

func (t *DataManager) Get(key string) (string, bool) {
	return t.dm.Get(key)
}

func (t *DataManager) Set(key, value string) {
	t.dm.Set(key, value)
}

func (t *DataManager) Eval(expr string) string {
	return t.dm.Eval(expr)
}

func (t *DataManager) EvalOpt(expr string) (string, bool) {
	return t.dm.EvalOpt(expr)
}

func (t *DataManager) SetKeyCurrencyName(name string) {
	if name == "" {
		name = def.DefaultKeyCurrency
	}
	t.keycName = name
}

func (t *DataManager) KeyCurrencyName() string {
	return t.keycName
}

// Clear drops per transaction state: the variables and the scope tables.
// Query results and identity rows stay for the runner's lifetime.
func (t *DataManager) Clear() {
	t.dm.Clear()
	t.userScope.Clear()
	t.contractScope.Clear()
}

// Reset drops everything, used when the runner moves to a new block.
func (t *DataManager) Reset() {
	t.Clear()
	t.queryCache = make(map[string]*Result)
	t.userAttr = make(map[string][]DataAttribute)
	t.userCert = make(map[string][]UserCertRecord)
	t.keycName = def.DefaultKeyCurrency
}

func (t *DataManager) GetWorld() []DataAttribute {
	return t.queryAndCache(NewQuery(def.QueryWorld, nil)).attributes()
}

func (t *DataManager) GetChain() []DataAttribute {
	return t.queryAndCache(NewQuery(def.QueryChain, nil)).attributes()
}

// GetUserInfo returns the attribute row of the user ref resolves to.
func (t *DataManager) GetUserInfo(ref string) []DataAttribute {
	if ref == "" {
		return nil
	}
	uid := t.Eval(ref)
	if attrs, ok := t.userAttr[uid]; ok {
		return attrs
	}

	res := t.queryAndCache(NewQuery(def.QueryUserInfo, map[string]interface{}{"uid": uid}))
	rows := res.rows()
	if len(rows) == 0 {
		return nil
	}

	var attrs []DataAttribute
	for _, name := range res.Name {
		attrs = append(attrs, DataAttribute{Name: name, Value: rows[0][name]})
	}
	t.userAttr[uid] = attrs
	return attrs
}

// GetUserAttributeRecord is GetUserInfo decoded.
func (t *DataManager) GetUserAttributeRecord(ref string) (*UserAttributeRecord, bool) {
	attrs := t.GetUserInfo(ref)
	if len(attrs) == 0 {
		return nil, false
	}
	row := make(map[string]string, len(attrs))
	for _, a := range attrs {
		row[a.Name] = a.Value
	}
	rec := &UserAttributeRecord{}
	if err := decodeRecord(row, rec); err != nil {
		t.log.Warn("decode user attribute failed", "uid", t.Eval(ref), "err", err)
		return nil, false
	}
	if rec.Uid == "" {
		rec.Uid = t.Eval(ref)
	}
	return rec, true
}

func (t *DataManager) GetUserCert(ref string) []DataAttribute {
	if ref == "" {
		return nil
	}
	uid := t.Eval(ref)

	res := t.queryAndCache(NewQuery(def.QueryUserCert, map[string]interface{}{"uid": uid}))
	rows := res.rows()
	if len(rows) == 0 {
		return nil
	}

	certs := make([]UserCertRecord, 0, len(rows))
	for _, row := range rows {
		rec := UserCertRecord{}
		if err := decodeRecord(row, &rec); err != nil {
			continue
		}
		certs = append(certs, rec)
	}
	t.userCert[uid] = certs
	return res.attributes()
}

// GetUserCertRecords returns certificates cached by the last GetUserCert.
func (t *DataManager) GetUserCertRecords(uid string) []UserCertRecord {
	return t.userCert[uid]
}

// GetUserKeyCurrency returns the untagged key currency balance, 0 if none.
func (t *DataManager) GetUserKeyCurrency(ref string) int64 {
	if ref == "" {
		return 0
	}
	uid := t.Eval(ref)

	for _, rec := range t.userScopeRows(scopeKey(uid, t.keycName)) {
		if rec.VarOwner == uid && rec.Tag == "" && rec.Kind() == def.KindKEYC && rec.VarName == t.keycName {
			return utils.ParseInt(rec.VarValue)
		}
	}

	q := NewQuery(def.QueryUserScope, map[string]interface{}{
		"uid":   uid,
		"name":  t.keycName,
		"type":  def.KindKEYC.String(),
		"notag": true,
	})
	attrs := t.queryUserScope(q, uid, "", true)
	if len(attrs) > 0 && attrs[0].Name == t.keycName {
		return utils.ParseInt(attrs[0].Value)
	}
	return 0
}

// GetScopeVariables resolves name ("*" for all) owned by id in the user or
// contract scope. Tagged user records are never returned.
func (t *DataManager) GetScopeVariables(scope, id, name string) []DataAttribute {
	if id == "" || name == "" || (scope != def.ScopeUser && scope != def.ScopeContract) {
		return nil
	}

	var out []DataAttribute
	if name != AllNames {
		if scope == def.ScopeUser {
			for _, rec := range t.userScopeRows(scopeKey(id, name)) {
				if rec.VarOwner == id && rec.Tag == "" {
					out = append(out, DataAttribute{Name: name, Value: rec.VarValue})
					break
				}
			}
		} else if v, ok := t.contractScope.Get(scopeKey(id, name)); ok {
			out = append(out, DataAttribute{Name: name, Value: v.(*ContractScopeRecord).VarValue})
		}
	} else {
		if scope == def.ScopeUser {
			it := t.userScope.Iterator()
			for it.Next() {
				for _, rec := range it.Value().([]*UserScopeRecord) {
					if rec.VarOwner == id && rec.Tag == "" {
						out = append(out, DataAttribute{Name: rec.VarName, Value: rec.VarValue})
					}
				}
			}
		} else {
			it := t.contractScope.Iterator()
			for it.Next() {
				rec := it.Value().(*ContractScopeRecord)
				if rec.ContractId == id {
					out = append(out, DataAttribute{Name: rec.VarName, Value: rec.VarValue})
				}
			}
		}
	}
	if len(out) > 0 {
		return out
	}

	where := map[string]interface{}{"uid": id, "notag": true}
	if name != AllNames {
		where["name"] = name
	}
	if scope == def.ScopeUser {
		return t.queryUserScope(NewQuery(def.QueryUserScope, where), id, "", true)
	}
	return t.queryContractScope(NewQuery(def.QueryContractScope, where), id)
}

// GetUserScopeRecordByName prefers an untagged record.
func (t *DataManager) GetUserScopeRecordByName(uid, name string) *UserScopeRecord {
	if name == AllNames {
		return nil
	}
	if rec := t.findUserScopeByName(uid, name); rec != nil {
		return rec
	}

	q := NewQuery(def.QueryUserScope, map[string]interface{}{"uid": uid, "name": name})
	t.queryUserScope(q, uid, "", false)
	return t.findUserScopeByName(uid, name)
}

func (t *DataManager) GetUserScopeRecordByPid(uid, name, pid string) *UserScopeRecord {
	if rec := t.findUserScopeByPid(uid, name, pid); rec != nil {
		return rec
	}

	q := NewQuery(def.QueryUserScope, map[string]interface{}{"uid": uid, "pid": pid})
	t.queryUserScope(q, uid, "", false)
	return t.findUserScopeByPid(uid, name, pid)
}

// scopeKey joins owner and name so that no two pairs share a key.
func scopeKey(owner, name string) string {
	return owner + "\x00" + name
}

func (t *DataManager) userScopeRows(key string) []*UserScopeRecord {
	v, ok := t.userScope.Get(key)
	if !ok {
		return nil
	}
	return v.([]*UserScopeRecord)
}

func (t *DataManager) findUserScopeByName(uid, name string) *UserScopeRecord {
	var found *UserScopeRecord
	untagged := false
	for _, rec := range t.userScopeRows(scopeKey(uid, name)) {
		if rec.VarOwner != uid || rec.VarName != name {
			continue
		}
		if rec.Tag == "" {
			untagged = true
			found = rec
		} else if !untagged {
			found = rec
		}
	}
	if found == nil {
		return nil
	}
	cp := *found
	return &cp
}

func (t *DataManager) findUserScopeByPid(uid, name, pid string) *UserScopeRecord {
	for _, rec := range t.userScopeRows(scopeKey(uid, name)) {
		if rec.VarOwner == uid && rec.Pid == pid {
			cp := *rec
			return &cp
		}
	}
	return nil
}

// queryUserScope merges the answer into the user scope table. With collect
// set it returns untagged rows when pid is empty, else the rows of pid.
func (t *DataManager) queryUserScope(q *Query, uid, pid string, collect bool) []DataAttribute {
	var out []DataAttribute
	for _, row := range t.queryAndCache(q).rows() {
		rec := &UserScopeRecord{}
		if err := decodeRecord(row, rec); err != nil {
			t.log.Warn("decode user scope row failed", "uid", uid, "err", err)
			continue
		}
		if rec.VarName == "" {
			continue
		}
		if rec.VarOwner == "" {
			rec.VarOwner = uid
		}

		if collect {
			if (pid == "" && rec.Tag == "") || (pid != "" && rec.Pid == pid) {
				out = append(out, DataAttribute{Name: rec.VarName, Value: rec.VarValue})
			}
		}

		key := scopeKey(uid, rec.VarName)
		rows := t.userScopeRows(key)
		updated := false
		for _, old := range rows {
			if old.Pid == rec.Pid {
				old.VarValue = rec.VarValue
				updated = true
				break
			}
		}
		if !updated {
			t.userScope.Put(key, append(rows, rec))
		}
	}
	return out
}

func (t *DataManager) queryContractScope(q *Query, cid string) []DataAttribute {
	var out []DataAttribute
	for _, row := range t.queryAndCache(q).rows() {
		rec := &ContractScopeRecord{}
		if err := decodeRecord(row, rec); err != nil {
			t.log.Warn("decode contract scope row failed", "cid", cid, "err", err)
			continue
		}
		if rec.VarName == "" {
			continue
		}
		if rec.ContractId == "" {
			rec.ContractId = cid
		}
		t.contractScope.Put(scopeKey(cid, rec.VarName), rec)
		out = append(out, DataAttribute{Name: rec.VarName, Value: rec.VarValue})
	}
	return out
}

// queryAndCache asks the ledger at most once per distinct query. A failed
// call yields nil and is not cached.
func (t *DataManager) queryAndCache(q *Query) *Result {
	key, err := queryKeyMode.Marshal(q)
	if err != nil {
		t.log.Warn("encode query key failed", "type", q.Type, "err", err)
		return nil
	}
	if res, ok := t.queryCache[string(key)]; ok {
		metrics.LedgerQueryCounter.WithLabelValues(q.Type, metrics.CacheHit).Inc()
		return res
	}
	metrics.LedgerQueryCounter.WithLabelValues(q.Type, metrics.CacheMiss).Inc()

	if t.ledger == nil {
		return nil
	}
	res, err := t.ledger.Query(q)
	if err != nil {
		t.log.Warn("ledger query failed", "type", q.Type, "where", q.Where, "err", err)
		return nil
	}
	if res == nil {
		res = &Result{}
	}
	t.queryCache[string(key)] = res
	return res
}
