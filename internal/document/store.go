package document

import (
	"fmt"
	"slices"
)

type EventKind int

const (
	EventAdded EventKind = iota
	EventRemoved
	EventMoved
	EventAttrsChanged
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	case EventMoved:
		return "moved"
	case EventAttrsChanged:
		return "attrsChanged"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event describes one model change. Row membership changes carry RowID and
// TimeseriesID; fragment membership changes carry TimeseriesID and
// FragmentID; attribute changes carry TimeseriesID.
type Event struct {
	Kind         EventKind
	RowID        string
	TimeseriesID string
	FragmentID   string
}

type Listener func(Event)

// Model is the in-memory store of rows, timeseries and fragments. It is not
// safe for concurrent use; callers drive it from a single goroutine.
type Model struct {
	rows       map[string]*Row
	rowOrder   []string
	timeseries map[string]*Timeseries
	fragments  map[string]*Fragment
	// fragment id -> owning timeseries id
	owners map[string]string

	listeners    map[int]Listener
	nextListener int
}

func NewModel() *Model {
	return &Model{
		rows:       make(map[string]*Row),
		timeseries: make(map[string]*Timeseries),
		fragments:  make(map[string]*Fragment),
		owners:     make(map[string]string),
		listeners:  make(map[int]Listener),
	}
}

// Subscribe registers fn for every change notification and returns a
// function that removes it.
func (m *Model) Subscribe(fn Listener) func() {
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	return func() { delete(m.listeners, id) }
}

func (m *Model) emit(ev Event) {
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := m.listeners[id]; ok {
			fn(ev)
		}
	}
}

// --- Queries ---

func (m *Model) Row(id string) (*Row, bool) {
	r, ok := m.rows[id]
	return r, ok
}

func (m *Model) Timeseries(id string) (*Timeseries, bool) {
	ts, ok := m.timeseries[id]
	return ts, ok
}

func (m *Model) Fragment(id string) (*Fragment, bool) {
	f, ok := m.fragments[id]
	return f, ok
}

// RowIDs returns row ids in registration order.
func (m *Model) RowIDs() []string {
	return slices.Clone(m.rowOrder)
}

// OwnerOf returns the id of the timeseries a fragment belongs to.
func (m *Model) OwnerOf(fragmentID string) (string, bool) {
	id, ok := m.owners[fragmentID]
	return id, ok
}

// --- Rows ---

// AddRow registers an empty row.
func (m *Model) AddRow(id string) (*Row, error) {
	if _, ok := m.rows[id]; ok {
		return nil, fmt.Errorf("row %s: %w", id, ErrDuplicateID)
	}
	r := &Row{ID: id, Timeseries: []string{}}
	m.rows[id] = r
	m.rowOrder = append(m.rowOrder, id)
	return r, nil
}

// AddToRow inserts a timeseries id into a row at index (clamped; -1 appends).
// The timeseries does not have to exist yet: unresolvable ids are skipped
// when the row is drawn.
func (m *Model) AddToRow(rowID, timeseriesID string, index int) error {
	r, ok := m.rows[rowID]
	if !ok {
		return fmt.Errorf("row %s: %w", rowID, ErrNotFound)
	}
	if slices.Contains(r.Timeseries, timeseriesID) {
		return fmt.Errorf("row %s already holds %s: %w", rowID, timeseriesID, ErrDuplicateID)
	}
	if index < 0 || index > len(r.Timeseries) {
		index = len(r.Timeseries)
	}
	r.Timeseries = slices.Insert(r.Timeseries, index, timeseriesID)
	m.emit(Event{Kind: EventAdded, RowID: rowID, TimeseriesID: timeseriesID})
	return nil
}

func (m *Model) RemoveFromRow(rowID, timeseriesID string) error {
	r, ok := m.rows[rowID]
	if !ok {
		return fmt.Errorf("row %s: %w", rowID, ErrNotFound)
	}
	i := slices.Index(r.Timeseries, timeseriesID)
	if i < 0 {
		return fmt.Errorf("timeseries %s in row %s: %w", timeseriesID, rowID, ErrNotFound)
	}
	r.Timeseries = slices.Delete(r.Timeseries, i, i+1)
	m.emit(Event{Kind: EventRemoved, RowID: rowID, TimeseriesID: timeseriesID})
	return nil
}

// MoveInRow moves a timeseries to a new position in the row's draw order.
func (m *Model) MoveInRow(rowID, timeseriesID string, index int) error {
	r, ok := m.rows[rowID]
	if !ok {
		return fmt.Errorf("row %s: %w", rowID, ErrNotFound)
	}
	i := slices.Index(r.Timeseries, timeseriesID)
	if i < 0 {
		return fmt.Errorf("timeseries %s in row %s: %w", timeseriesID, rowID, ErrNotFound)
	}
	r.Timeseries = slices.Delete(r.Timeseries, i, i+1)
	if index < 0 || index > len(r.Timeseries) {
		index = len(r.Timeseries)
	}
	r.Timeseries = slices.Insert(r.Timeseries, index, timeseriesID)
	if index != i {
		m.emit(Event{Kind: EventMoved, RowID: rowID, TimeseriesID: timeseriesID})
	}
	return nil
}

// --- Timeseries ---

// AddTimeseries registers a series with no fragments. Fragment ids already
// present on ts are ignored; use AddFragment.
func (m *Model) AddTimeseries(id string, style Style, attrs Attributes) (*Timeseries, error) {
	if _, ok := m.timeseries[id]; ok {
		return nil, fmt.Errorf("timeseries %s: %w", id, ErrDuplicateID)
	}
	if err := validateAttributes(id, style, attrs); err != nil {
		return nil, err
	}
	ts := &Timeseries{ID: id, Style: style, Attributes: attrs, Fragments: []string{}}
	m.timeseries[id] = ts
	return ts, nil
}

// SetAttributes replaces the style and attributes of a series.
func (m *Model) SetAttributes(id string, style Style, attrs Attributes) error {
	ts, ok := m.timeseries[id]
	if !ok {
		return fmt.Errorf("timeseries %s: %w", id, ErrNotFound)
	}
	if err := validateAttributes(id, style, attrs); err != nil {
		return err
	}
	ts.Style = style
	ts.Attributes = attrs
	m.emit(Event{Kind: EventAttrsChanged, TimeseriesID: id})
	return nil
}

// RemoveTimeseries drops a series and its fragments. Rows keep the id and
// skip it when drawing.
func (m *Model) RemoveTimeseries(id string) error {
	ts, ok := m.timeseries[id]
	if !ok {
		return fmt.Errorf("timeseries %s: %w", id, ErrNotFound)
	}
	for _, fid := range slices.Clone(ts.Fragments) {
		if err := m.RemoveFragment(fid); err != nil {
			return err
		}
	}
	delete(m.timeseries, id)
	return nil
}

// --- Fragments ---

// AddFragment validates f and appends it to the series' fragment list.
// Insertion order is kept; ordering by time is the renderer's job.
func (m *Model) AddFragment(timeseriesID string, f *Fragment) error {
	ts, ok := m.timeseries[timeseriesID]
	if !ok {
		return fmt.Errorf("timeseries %s: %w", timeseriesID, ErrNotFound)
	}
	if _, ok := m.fragments[f.ID]; ok {
		return fmt.Errorf("fragment %s: %w", f.ID, ErrDuplicateID)
	}
	if err := f.Validate(); err != nil {
		return err
	}
	for _, fid := range ts.Fragments {
		if other, ok := m.fragments[fid]; ok && other.Overlaps(f) {
			return fmt.Errorf("fragment %s and %s: %w", f.ID, fid, ErrOverlappingFragments)
		}
	}
	m.fragments[f.ID] = f
	m.owners[f.ID] = timeseriesID
	ts.Fragments = append(ts.Fragments, f.ID)
	m.emit(Event{Kind: EventAdded, TimeseriesID: timeseriesID, FragmentID: f.ID})
	return nil
}

func (m *Model) RemoveFragment(id string) error {
	owner, ok := m.owners[id]
	if !ok {
		return fmt.Errorf("fragment %s: %w", id, ErrNotFound)
	}
	if ts, ok := m.timeseries[owner]; ok {
		if i := slices.Index(ts.Fragments, id); i >= 0 {
			ts.Fragments = slices.Delete(ts.Fragments, i, i+1)
		}
	}
	delete(m.fragments, id)
	delete(m.owners, id)
	m.emit(Event{Kind: EventRemoved, TimeseriesID: owner, FragmentID: id})
	return nil
}
