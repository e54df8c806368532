package freq

import "errors"

// Reduce folds per-worker groups into one. Merge is associative and
// commutative, so the order of the groups does not matter; this is the only
// synchronization point of the whole pipeline.
func Reduce(groups []*Group) (*Group, error) {
	if len(groups) == 0 {
		return nil, errors.New("nothing to reduce")
	}
	acc := groups[0]
	for _, g := range groups[1:] {
		if err := acc.Merge(g); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// ReduceChan folds groups as they arrive from workers. It drains the
// channel even after an error so that senders never block.
func ReduceChan(groups <-chan *Group) (*Group, error) {
	var acc *Group
	var err error
	for g := range groups {
		if err != nil {
			continue
		}
		if acc == nil {
			acc = g
			continue
		}
		err = acc.Merge(g)
	}
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errors.New("nothing to reduce")
	}
	return acc, nil
}
