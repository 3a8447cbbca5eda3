package core

// ImportPreview describes what appending an incoming table would do, without
// doing it. The shell shows it when an append needs a reconciliation policy.
type ImportPreview struct {
	CurrentColumns  []string `json:"currentColumns"`
	IncomingColumns []string `json:"incomingColumns"`

	// MissingFromIncoming are current columns the incoming rows lack; they
	// are filled with nulls under both policies.
	MissingFromIncoming []string `json:"missingFromIncoming"`

	// IncomingOnly are dropped under align and added under union.
	IncomingOnly []string `json:"incomingOnly"`

	PolicyRequired bool            `json:"policyRequired"`
	CurrentRows    int             `json:"currentRows"`
	IncomingRows   int             `json:"incomingRows"`
	Samples        [][]Value       `json:"samples"`
	Results        []PolicyOutcome `json:"results,omitempty"`
}

// PolicyOutcome is the shape of the table a policy would produce.
type PolicyOutcome struct {
	Policy  string   `json:"policy"`
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
}

const maxPreviewSamples = 5

// PreviewImport compares current and incoming. It never modifies either.
func PreviewImport(current, incoming Table) ImportPreview {
	p := ImportPreview{
		CurrentColumns:      current.Columns(),
		IncomingColumns:     incoming.Columns(),
		MissingFromIncoming: []string{},
		IncomingOnly:        []string{},
		CurrentRows:         current.Len(),
		IncomingRows:        incoming.Len(),
	}

	for _, c := range current.columns {
		if !incoming.HasColumn(c) {
			p.MissingFromIncoming = append(p.MissingFromIncoming, c)
		}
	}
	for _, c := range incoming.columns {
		if !current.HasColumn(c) {
			p.IncomingOnly = append(p.IncomingOnly, c)
		}
	}

	p.PolicyRequired = !current.IsEmpty() && !sameColumns(current.columns, incoming.columns)

	samples := incoming.Records()
	if len(samples) > maxPreviewSamples {
		samples = samples[:maxPreviewSamples]
	}
	p.Samples = samples

	if p.PolicyRequired {
		for _, policy := range []Policy{PolicyAlign, PolicyUnion} {
			t, err := Reconcile(current, incoming, policy)
			if err != nil {
				continue
			}
			p.Results = append(p.Results, PolicyOutcome{Policy: policy.String(), Columns: t.Columns(), Rows: t.Len()})
		}
	}
	return p
}
