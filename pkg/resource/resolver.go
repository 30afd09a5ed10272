package resource

import (
	"strings"

	"github.com/interactors-overlay/internal/domain"
)

// evidenceSeparator joins multivalue evidence terms inside a query string.
const evidenceSeparator = "%20OR%20"

// sourceSeparator splits a composite evidence into its term and originating database.
const sourceSeparator = "#"

// Resolver builds accession and evidence URLs from a catalog.
type Resolver struct {
	catalog *Catalog
}

// NewResolver creates a resolver over catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// AccessionURL returns the browse URL of an accession in the given resource.
// ChEBI accessions use the chemical template, UniProt isoforms the isoform
// template when the resource has one, everything else the protein template.
func (r *Resolver) AccessionURL(acc, resourceName string) (string, error) {
	entry, err := r.catalog.Lookup(resourceName)
	if err != nil {
		return "", err
	}

	var template, kind string
	switch {
	case domain.IsChemical(acc):
		template, kind = entry.ChemicalTemplate, "chemical"
	case entry.IsoformTemplate != "" && domain.IsIsoform(acc):
		template, kind = entry.IsoformTemplate, "isoform"
	default:
		template, kind = entry.ProteinTemplate, "protein"
	}
	if template == "" {
		return "", &domain.ResolutionError{
			Kind:     domain.KindMissingTemplate,
			Resource: entry.Name,
			Detail:   "no " + kind + " template",
		}
	}
	return strings.ReplaceAll(template, Placeholder, acc), nil
}

// EvidenceURL returns the URL showing the given evidences. The boolean is
// false when there is nothing to link: no evidences, a resource without
// interaction URLs, an empty term, or no usable template.
func (r *Resolver) EvidenceURL(evidences []string, resourceName string) (string, bool, error) {
	if len(evidences) == 0 {
		return "", false, nil
	}
	entry, err := r.catalog.Lookup(resourceName)
	if err != nil {
		return "", false, err
	}
	if !entry.HasInteractionURL() {
		return "", false, nil
	}

	source := strings.ToUpper(strings.ReplaceAll(resourceName, "-", ""))
	var term string
	if entry.Multivalue {
		term = strings.Join(evidences, evidenceSeparator)
	} else {
		term = evidences[0]
		if raw, src, ok := strings.Cut(term, sourceSeparator); ok {
			term = raw
			source = strings.ToUpper(src)
		}
	}
	if term == "" {
		return "", false, nil
	}

	template, ok := entry.InteractionTemplates[source]
	if !ok {
		template = r.catalog.DefaultInteraction()
	}
	if template == "" {
		return "", false, nil
	}
	return strings.ReplaceAll(template, Placeholder, term), true, nil
}
