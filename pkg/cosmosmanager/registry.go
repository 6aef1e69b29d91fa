package cosmosmanager

import (
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// AccountInfo is the registry entry for a single Cosmos DB account.
type AccountInfo struct {
	Name              string  `json:"name" yaml:"name"`
	ID                string  `json:"id" yaml:"id"`
	ResourceGroup     string  `json:"resourceGroup" yaml:"resource_group"`
	Type              string  `json:"type" yaml:"type"`
	Location          string  `json:"location" yaml:"location"`
	DefaultExperience APIKind `json:"defaultExperience" yaml:"default_experience"`
}

// AccountRegistry is an in-memory mirror of the accounts in a subscription. It is filled once
// from a listing and then kept up to date by the AccountManager after each successful call.
type AccountRegistry struct {
	mu       sync.RWMutex
	accounts map[string]AccountInfo
}

// NewAccountRegistry creates a registry seeded with the given accounts.
func NewAccountRegistry(accounts ...AccountInfo) *AccountRegistry {
	r := &AccountRegistry{accounts: make(map[string]AccountInfo, len(accounts))}
	for _, a := range accounts {
		r.accounts[a.Name] = a
	}
	return r
}

// Reset replaces every entry with accounts.
func (r *AccountRegistry) Reset(accounts ...AccountInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = make(map[string]AccountInfo, len(accounts))
	for _, a := range accounts {
		r.accounts[a.Name] = a
	}
}

// Put adds or replaces an account entry.
func (r *AccountRegistry) Put(info AccountInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[info.Name] = info
}

// Get returns the entry for name.
func (r *AccountRegistry) Get(name string) (AccountInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.accounts[name]
	return info, ok
}

// Remove deletes the entry for name and reports whether it was present.
func (r *AccountRegistry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[name]; !ok {
		return false
	}
	delete(r.accounts, name)
	return true
}

// SetDefaultExperience updates the recorded API kind of an existing entry.
func (r *AccountRegistry) SetDefaultExperience(name string, kind APIKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.accounts[name]
	if !ok {
		return false
	}
	info.DefaultExperience = kind
	r.accounts[name] = info
	return true
}

// Names returns the account names in lexical order.
func (r *AccountRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.accounts)
	slices.Sort(names)
	return names
}

// All returns every entry ordered by name.
func (r *AccountRegistry) All() []AccountInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := lo.Values(r.accounts)
	slices.SortFunc(all, func(a, b AccountInfo) int { return strings.Compare(a.Name, b.Name) })
	return all
}

// Len returns the number of registered accounts.
func (r *AccountRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// DatabaseRegistry mirrors the databases of one account and the collections inside each.
type DatabaseRegistry struct {
	mu        sync.RWMutex
	databases map[string][]string
}

// NewDatabaseRegistry creates a registry from a listing of database -> collections.
func NewDatabaseRegistry(listing map[string][]string) *DatabaseRegistry {
	r := &DatabaseRegistry{databases: make(map[string][]string, len(listing))}
	for db, colls := range listing {
		r.databases[db] = slices.Clone(colls)
	}
	return r
}

// AddDatabase records a database with no collections. Existing entries are left untouched.
func (r *DatabaseRegistry) AddDatabase(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.databases[name]; !ok {
		r.databases[name] = []string{}
	}
}

// RemoveDatabase forgets a database and all of its collections.
func (r *DatabaseRegistry) RemoveDatabase(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.databases[name]; !ok {
		return false
	}
	delete(r.databases, name)
	return true
}

// AddCollection records a collection, creating the database entry when it is missing.
func (r *DatabaseRegistry) AddCollection(database, collection string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	colls := r.databases[database]
	if slices.Contains(colls, collection) {
		return
	}
	r.databases[database] = append(colls, collection)
}

// RemoveCollection forgets a collection and stores the reduced list back into the registry.
func (r *DatabaseRegistry) RemoveCollection(database, collection string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	colls, ok := r.databases[database]
	if !ok {
		return false
	}
	remaining := lo.Without(colls, collection)
	if len(remaining) == len(colls) {
		return false
	}
	r.databases[database] = remaining
	return true
}

// Databases returns the database names in lexical order.
func (r *DatabaseRegistry) Databases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.databases)
	slices.Sort(names)
	return names
}

// Collections returns a copy of the collection names for database.
func (r *DatabaseRegistry) Collections(database string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	colls, ok := r.databases[database]
	if !ok {
		return nil, false
	}
	return slices.Clone(colls), true
}

// Snapshot returns a deep copy of the registry contents.
func (r *DatabaseRegistry) Snapshot() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]string, len(r.databases))
	for db, colls := range r.databases {
		out[db] = slices.Clone(colls)
	}
	return out
}
