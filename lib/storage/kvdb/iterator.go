package kvdb

// SliceIterator iterates over a snapshot of key/value pairs, for engines
// without a bidirectional cursor.
type SliceIterator struct {
	keys   [][]byte
	values [][]byte
	idx    int
	err    error
}

// NewSliceIterator expects keys in ascending order.
func NewSliceIterator(keys, values [][]byte, err error) *SliceIterator {
	return &SliceIterator{keys: keys, values: values, idx: -1, err: err}
}

func (it *SliceIterator) valid() bool {
	return it.idx >= 0 && it.idx < len(it.keys)
}

func (it *SliceIterator) Key() []byte {
	if !it.valid() {
		return nil
	}
	return it.keys[it.idx]
}

func (it *SliceIterator) Value() []byte {
	if !it.valid() {
		return nil
	}
	return it.values[it.idx]
}

func (it *SliceIterator) Next() bool {
	if it.idx < len(it.keys) {
		it.idx++
	}
	return it.valid()
}

// Prev 在初始位置调用时移动到最后一个元素
func (it *SliceIterator) Prev() bool {
	switch {
	case it.idx < 0:
		it.idx = len(it.keys) - 1
	case it.idx > 0 || it.idx == len(it.keys):
		it.idx--
	default:
		it.idx = -1
	}
	return it.valid()
}

func (it *SliceIterator) First() bool {
	it.idx = 0
	return it.valid()
}

func (it *SliceIterator) Last() bool {
	it.idx = len(it.keys) - 1
	return it.valid()
}

func (it *SliceIterator) Error() error {
	return it.err
}

func (it *SliceIterator) Release() {
	it.keys, it.values = nil, nil
	it.idx = -1
}
