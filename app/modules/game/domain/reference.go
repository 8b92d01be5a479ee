package gamedomain

// ReferenceEntry is one label and its point value.
type ReferenceEntry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// RemarkEntry is one remark and the multiplier it applies.
type RemarkEntry struct {
	Label      string `json:"label"`
	Multiplier int    `json:"multiplier"`
}

// ValuesReference lists every label a declaration may use.
type ValuesReference struct {
	Contracts     []ReferenceEntry `json:"contracts"`
	Realized      []ReferenceEntry `json:"realized"`
	Announcements []ReferenceEntry `json:"announcements"`
	Remarks       []RemarkEntry    `json:"remarks"`
}

// Reference builds the values table.
func Reference() ValuesReference {
	var ref ValuesReference
	for _, c := range Contracts() {
		ref.Contracts = append(ref.Contracts, ReferenceEntry{Label: c.String(), Value: c.Value()})
	}
	for _, r := range RealizedValues() {
		ref.Realized = append(ref.Realized, ReferenceEntry{Label: r.String(), Value: r.Value()})
	}
	for _, a := range Announcements() {
		ref.Announcements = append(ref.Announcements, ReferenceEntry{Label: a.String(), Value: a.Value()})
	}
	for _, r := range Remarks() {
		ref.Remarks = append(ref.Remarks, RemarkEntry{Label: r.String(), Multiplier: r.Multiplier()})
	}
	return ref
}
