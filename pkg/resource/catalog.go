// Package resource holds the catalog of interaction resources and turns
// accessions and evidence identifiers into display URLs.
package resource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/interactors-overlay/internal/domain"
)

// Placeholder is substituted with the identifier in every template.
const Placeholder = "##ID##"

// DefaultInteractionURL is used when a resource has no template for the
// evidence source.
const DefaultInteractionURL = "https://www.ebi.ac.uk/intact/interaction/" + Placeholder

// Entry describes how one resource links accessions and evidences.
type Entry struct {
	Name                 string
	ProteinTemplate      string
	ChemicalTemplate     string
	IsoformTemplate      string
	InteractionTemplates map[string]string
	Multivalue           bool
}

// HasInteractionURL reports whether the resource can link evidences.
func (e Entry) HasInteractionURL() bool {
	return len(e.InteractionTemplates) > 0
}

// Catalog is the read-only set of resource entries, looked up by name
// ignoring case. It is never mutated after NewCatalog returns.
type Catalog struct {
	entries            map[string]Entry
	defaultInteraction string
}

// NewCatalog builds a catalog. Entry names must be unique ignoring case.
func NewCatalog(entries []Entry, defaultInteraction string) (*Catalog, error) {
	c := &Catalog{
		entries:            make(map[string]Entry, len(entries)),
		defaultInteraction: defaultInteraction,
	}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			return nil, fmt.Errorf("resource entry without a name")
		}
		if _, dup := c.entries[key]; dup {
			return nil, fmt.Errorf("resource %q is declared twice", e.Name)
		}
		templates := make(map[string]string, len(e.InteractionTemplates))
		for src, url := range e.InteractionTemplates {
			templates[strings.ToUpper(src)] = url
		}
		e.InteractionTemplates = templates
		c.entries[key] = e
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultEntries(), DefaultInteractionURL)
	if err != nil {
		panic(err)
	}
	return c
}

// FromConfig builds the catalog from configuration, falling back to the
// built-in entries when none are configured.
func FromConfig(cfg domain.ResourceConfig) (*Catalog, error) {
	defaultInteraction := cfg.DefaultInteractionURL
	if len(cfg.Entries) == 0 {
		if defaultInteraction == "" {
			defaultInteraction = DefaultInteractionURL
		}
		return NewCatalog(DefaultEntries(), defaultInteraction)
	}

	entries := make([]Entry, 0, len(cfg.Entries))
	for _, e := range cfg.Entries {
		entries = append(entries, Entry{
			Name:                 e.Name,
			ProteinTemplate:      e.Protein,
			ChemicalTemplate:     e.Chemical,
			IsoformTemplate:      e.Isoform,
			InteractionTemplates: e.Interactions,
			Multivalue:           e.Multivalue,
		})
	}
	return NewCatalog(entries, defaultInteraction)
}

// Lookup returns the entry for name.
func (c *Catalog) Lookup(name string) (Entry, error) {
	e, ok := c.entries[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, &domain.ResolutionError{Kind: domain.KindUnknownResource, Resource: name}
	}
	return e, nil
}

// Names lists the catalog's resource names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// DefaultInteraction returns the fallback interaction template, empty if none.
func (c *Catalog) DefaultInteraction() string {
	return c.defaultInteraction
}

const (
	uniprotURL        = "https://www.uniprot.org/uniprot/" + Placeholder
	chebiURL          = "https://www.ebi.ac.uk/chebi/searchId.do?chebiId=" + Placeholder
	isoformURL        = "https://identifiers.org/uniprot.isoform/" + Placeholder
	intactSearchURL   = "https://www.ebi.ac.uk/intact/search?query=" + Placeholder
	innatedbURL       = "https://www.innatedb.com/getInteractionCard.do?id=" + Placeholder
	mintURL           = "https://mint.bio.uniroma2.it/index.php/detailed-curation/?id=" + Placeholder
	biogridURL        = "https://thebiogrid.org/interaction/" + Placeholder
	chemblCompoundURL = "https://www.ebi.ac.uk/chembl/compound_report_card/" + Placeholder + "/"
)

// DefaultEntries returns the built-in resource entries.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Name:                 "static",
			ProteinTemplate:      uniprotURL,
			ChemicalTemplate:     chebiURL,
			IsoformTemplate:      isoformURL,
			InteractionTemplates: map[string]string{"STATIC": DefaultInteractionURL},
		},
		{
			Name:                 "intact",
			ProteinTemplate:      uniprotURL,
			ChemicalTemplate:     chebiURL,
			IsoformTemplate:      isoformURL,
			InteractionTemplates: map[string]string{"INTACT": intactSearchURL},
			Multivalue:           true,
		},
		{
			Name:            "mentha",
			ProteinTemplate: uniprotURL,
			InteractionTemplates: map[string]string{
				"INNATEDB": innatedbURL,
				"INTACT":   DefaultInteractionURL,
				"MINT":     mintURL,
				"BIOGRID":  biogridURL,
			},
		},
		{
			Name:                 "innatedb",
			ProteinTemplate:      uniprotURL,
			InteractionTemplates: map[string]string{"INNATEDB": innatedbURL},
		},
		{
			Name:             "chembl",
			ProteinTemplate:  uniprotURL,
			ChemicalTemplate: chemblCompoundURL,
		},
		{
			Name:            "uniprot",
			ProteinTemplate: uniprotURL,
			IsoformTemplate: isoformURL,
		},
		{
			Name:             "chebi",
			ChemicalTemplate: chebiURL,
		},
	}
}
