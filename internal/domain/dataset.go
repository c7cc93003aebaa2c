package domain

// StatDefinition is one row of the stat multiplier table.
type StatDefinition struct {
	Name       string
	Multiplier float64
	// Color is always a sanitized "#RRGGBB" value.
	Color string
}

// PowerstoneRecord is one row of the powers table.
type PowerstoneRecord struct {
	Name      string
	BaseStats map[string]float64
	// UniqueBonus is nil when the record has no bonus (empty or zero cell).
	UniqueBonus *float64
}

// Base returns the base value of stat, or 0 when the record does not define it.
func (r PowerstoneRecord) Base(stat string) float64 {
	return r.BaseStats[stat]
}

// Dataset is the reference data loaded once at startup. It is never mutated after
// NewDataset returns, so it can be shared freely.
type Dataset struct {
	stats       []StatDefinition
	powerstones []PowerstoneRecord
	byPower     map[string]int
}

// NewDataset builds a dataset from stats and powerstones in sheet order.
// When two powerstones share a name, lookups return the first one.
func NewDataset(stats []StatDefinition, powerstones []PowerstoneRecord) *Dataset {
	ds := &Dataset{
		stats:       append([]StatDefinition(nil), stats...),
		powerstones: append([]PowerstoneRecord(nil), powerstones...),
		byPower:     make(map[string]int, len(powerstones)),
	}
	for i, p := range ds.powerstones {
		if _, ok := ds.byPower[p.Name]; !ok {
			ds.byPower[p.Name] = i
		}
	}
	return ds
}

func (d *Dataset) Stats() []StatDefinition {
	return append([]StatDefinition(nil), d.stats...)
}

func (d *Dataset) StatNames() []string {
	out := make([]string, 0, len(d.stats))
	for _, s := range d.stats {
		out = append(out, s.Name)
	}
	return out
}

func (d *Dataset) Multipliers() map[string]float64 {
	out := make(map[string]float64, len(d.stats))
	for _, s := range d.stats {
		out[s.Name] = s.Multiplier
	}
	return out
}

func (d *Dataset) Colors() map[string]string {
	out := make(map[string]string, len(d.stats))
	for _, s := range d.stats {
		out[s.Name] = s.Color
	}
	return out
}

func (d *Dataset) Powerstones() []PowerstoneRecord {
	return append([]PowerstoneRecord(nil), d.powerstones...)
}

func (d *Dataset) PowerstoneNames() []string {
	out := make([]string, 0, len(d.powerstones))
	for _, p := range d.powerstones {
		out = append(out, p.Name)
	}
	return out
}

func (d *Dataset) Powerstone(name string) (PowerstoneRecord, bool) {
	i, ok := d.byPower[name]
	if !ok {
		return PowerstoneRecord{}, false
	}
	return d.powerstones[i], true
}
