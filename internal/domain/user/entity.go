package user

import "sort"

// User represents a registered tenant of the registry. A user is identified
// solely by its name and owns its named datasets.
type User struct {
	Name     string              // Name is the unique identifier of the user
	datasets map[string][]Record // datasets maps dataset name to its rows
}

// New creates a user together with its empty dataset collection.
func New(name string) *User {
	return &User{
		Name:     name,
		datasets: make(map[string][]Record),
	}
}

// PutDataset creates or fully replaces the dataset stored under name.
func (u *User) PutDataset(name string, records []Record) {
	u.datasets[name] = CloneRecords(records)
}

// Dataset returns a copy of the named dataset.
func (u *User) Dataset(name string) ([]Record, bool) {
	records, ok := u.datasets[name]
	if !ok {
		return nil, false
	}
	return CloneRecords(records), true
}

// DatasetNames returns the names of all datasets owned by the user, sorted.
func (u *User) DatasetNames() []string {
	names := make([]string, 0, len(u.datasets))
	for name := range u.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
