/*
Package catalog holds the food catalog the search engine is built from.

A Catalog is an ordered list of named records. Order matters: it is the order
entries appear in the source file, and the index built from the catalog
inherits it, which in turn decides how equally scored results are ordered.

Catalogs are loaded once at startup and never modified afterwards, so they can
be shared freely between goroutines:

	cat, err := catalog.Load("data/food_mappings.json")
	if err != nil {
		log.Fatal(err)
	}
	rec, ok := cat.Lookup("Ugali")

Both JSON files with a top level "food_mappings" object and TOML files with
[food_mappings."Name"] tables are supported.
*/
package catalog

// Entry is a named catalog record.
type Entry struct {
	Name   string
	Record Record
}

// Catalog is an immutable, ordered collection of entries.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// New builds a catalog from entries in order. A repeated name keeps the
// position of its first occurrence and the record of its last one.
func New(entries ...Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if i, ok := c.byName[e.Name]; ok {
			c.entries[i].Record = e.Record
			continue
		}
		c.byName[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Each calls fn for every entry in catalog order.
func (c *Catalog) Each(fn func(name string, rec Record)) {
	if c == nil {
		return
	}
	for _, e := range c.entries {
		fn(e.Name, e.Record)
	}
}

// Names returns the entry names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, c.Len())
	c.Each(func(name string, _ Record) {
		names = append(names, name)
	})
	return names
}

// Lookup returns the record stored under name.
func (c *Catalog) Lookup(name string) (Record, bool) {
	if c == nil {
		return Record{}, false
	}
	i, ok := c.byName[name]
	if !ok {
		return Record{}, false
	}
	return c.entries[i].Record, true
}

// Mapping returns the record stored under name, or DefaultRecord.
func (c *Catalog) Mapping(name string) Record {
	if rec, ok := c.Lookup(name); ok {
		return rec
	}
	return DefaultRecord()
}

// Filter returns the names of entries matching f, in catalog order.
func (c *Catalog) Filter(f Filter) []string {
	var names []string
	c.Each(func(name string, rec Record) {
		if f.Matches(rec) {
			names = append(names, name)
		}
	})
	return names
}
