package domain

import "sort"

// SupplierProfile is what feature assembly needs from the master.
// Known is false when the defaults were applied.
type SupplierProfile struct {
	SupplierID SupplierID
	Name       string
	BasePrice  float64
	Category   string
	Region     string
	Known      bool
}

// Directory indexes the supplier master by id.
type Directory struct {
	suppliers map[SupplierID]*Supplier
}

func NewDirectory() *Directory {
	return &Directory{suppliers: make(map[SupplierID]*Supplier)}
}

// Put stores s, replacing any previous entry with the same id.
// It reports whether an entry was replaced so loaders can warn about duplicates.
func (d *Directory) Put(s *Supplier) (replaced bool) {
	_, replaced = d.suppliers[s.ID()]
	d.suppliers[s.ID()] = s
	return replaced
}

// Get returns the master entry for id. A nil directory has no entries.
func (d *Directory) Get(id SupplierID) (*Supplier, bool) {
	if d == nil {
		return nil, false
	}
	s, ok := d.suppliers[id]
	return s, ok
}

// Len returns the number of suppliers.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.suppliers)
}

// IDs returns every supplier id, sorted.
func (d *Directory) IDs() []SupplierID {
	if d == nil {
		return nil
	}
	ids := make([]SupplierID, 0, len(d.suppliers))
	for id := range d.suppliers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Lookup resolves id to a profile. Unknown ids get base price 50.0 and
// category/region "Other". Labels of a known supplier are returned as stored,
// blank included, so encoders score a blank as an unseen label.
func (d *Directory) Lookup(id SupplierID) SupplierProfile {
	s, ok := d.Get(id)
	if !ok {
		return SupplierProfile{
			SupplierID: id,
			BasePrice:  DefaultBasePrice,
			Category:   DefaultCategory,
			Region:     DefaultRegion,
		}
	}
	return SupplierProfile{
		SupplierID: id,
		Name:       s.Name(),
		BasePrice:  s.BasePrice().Amount(),
		Category:   s.Category(),
		Region:     s.Region(),
		Known:      true,
	}
}
