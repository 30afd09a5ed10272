package service

import (
	"github.com/sirupsen/logrus"

	"github.com/interactors-overlay/internal/domain"
)

// InteractionLinks holds the display URLs of one interaction. Empty fields
// mean no link could be built.
type InteractionLinks struct {
	InteractorIDA string `json:"interactor_id_a"`
	InteractorIDB string `json:"interactor_id_b"`
	AccessionURLA string `json:"accession_url_a,omitempty"`
	AccessionURLB string `json:"accession_url_b,omitempty"`
	EvidenceURL   string `json:"evidence_url,omitempty"`
}

// LinkService renders display URLs for many interactions. A failure for one
// entry leaves that link empty instead of aborting the list.
type LinkService struct {
	logger   *logrus.Logger
	resolver domain.LinkResolver
}

// NewLinkService creates a new link service
func NewLinkService(logger *logrus.Logger, resolver domain.LinkResolver) *LinkService {
	return &LinkService{logger: logger, resolver: resolver}
}

// Links resolves accession and evidence URLs of every interaction against
// one resource.
func (s *LinkService) Links(resourceName string, interactions []domain.Interaction) []InteractionLinks {
	out := make([]InteractionLinks, 0, len(interactions))
	failures := 0
	for _, i := range interactions {
		links := InteractionLinks{
			InteractorIDA: i.InteractorIDA,
			InteractorIDB: i.InteractorIDB,
		}
		links.AccessionURLA = s.accession(i.InteractorIDA, resourceName, &failures)
		links.AccessionURLB = s.accession(i.InteractorIDB, resourceName, &failures)

		url, ok, err := s.resolver.EvidenceURL(i.Evidences(), resourceName)
		if err != nil {
			failures++
			s.logger.WithError(err).WithFields(logrus.Fields{
				"resource": resourceName,
				"evidence": i.Evidence,
			}).Warn("Could not resolve evidence URL")
		} else if ok {
			links.EvidenceURL = url
		}
		out = append(out, links)
	}

	if failures > 0 {
		s.logger.WithFields(logrus.Fields{
			"resource":     resourceName,
			"interactions": len(interactions),
			"failures":     failures,
		}).Info("Rendered links with unresolved entries")
	}
	return out
}

func (s *LinkService) accession(acc, resourceName string, failures *int) string {
	url, err := s.resolver.AccessionURL(acc, resourceName)
	if err != nil {
		*failures++
		s.logger.WithError(err).WithFields(logrus.Fields{
			"resource":  resourceName,
			"accession": acc,
		}).Debug("Could not resolve accession URL")
		return ""
	}
	return url
}
