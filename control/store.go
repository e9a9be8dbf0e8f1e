package control

import (
	"log/slog"
)

// Store owns the State together with its parameter table and history.
// It is not safe for concurrent use; producers on other goroutines push to
// a Queue instead.
type Store struct {
	table   *Table
	state   State
	history *History
}

func NewStore(initial State, table *Table, historyDepth int) *Store {
	return &Store{
		table:   table,
		state:   initial,
		history: NewHistory(historyDepth),
	}
}

// State returns the live state. Callers must not retain it across frames
// from another goroutine.
func (st *Store) State() *State { return &st.state }

func (st *Store) Table() *Table { return st.table }

func (st *Store) History() *History { return st.history }

// Snapshot returns a copy of the current state.
func (st *Store) Snapshot() State { return st.state }

func (st *Store) Apply(cmd Command) (Result, error) {
	return cmd.Apply(st)
}

func (st *Store) set(id ParamID, v Value) (Result, error) {
	p, err := st.table.Lookup(id)
	if err != nil {
		return Result{}, err
	}
	old := p.Get(&st.state)
	stored, err := p.Set(&st.state, v)
	if err != nil {
		return Result{}, err
	}
	r := Result{ID: id, Class: p.Class, Old: old, New: stored}
	if r.Changed() {
		st.history.Record(r)
	}
	return r, nil
}

// Changes summarises a batch of applied commands.
type Changes struct {
	Applied  int
	Rejected int
	Topology bool
	Helpers  bool
}

func (c *Changes) add(r Result) {
	if !r.Changed() {
		return
	}
	switch r.Class {
	case TopologyAffecting:
		c.Topology = true
	case HelperVisibility:
		c.Helpers = true
	}
}

// ApplyAll runs cmds in order. A rejected command is logged and leaves the
// state untouched; the rest of the batch still applies.
func (st *Store) ApplyAll(cmds []Command, logger *slog.Logger) Changes {
	var ch Changes
	for _, cmd := range cmds {
		r, err := cmd.Apply(st)
		if err != nil {
			ch.Rejected++
			logger.Warn("rejected control command", "cmd", cmd.String(), "err", err)
			continue
		}
		ch.Applied++
		ch.add(r)
		if r.Changed() {
			logger.Debug("control changed", "param", string(r.ID), "old", r.Old.String(), "new", r.New.String())
		}
	}
	return ch
}

// Diff returns set commands that turn prev into next, one per parameter
// that differs, in table order.
func Diff(t *Table, prev, next *State) []Command {
	var cmds []Command
	for _, p := range t.Params() {
		nv := p.Get(next)
		if p.Get(prev) != nv {
			cmds = append(cmds, SetValue(p.ID, nv))
		}
	}
	return cmds
}
