package traceability

import (
	"time"

	"github.com/google/uuid"
)

// Document kinds issued on release
const (
	DocPhytosanitary = "phytosanitary_certificate"
	DocOrigin        = "certificate_of_origin"
	DocDueDiligence  = "eudr_due_diligence_statement"
	DocExportPermit  = "export_permit"
)

// DocumentRelease is the terminal record of a batch's export documents
type DocumentRelease struct {
	ID          uuid.UUID
	ReleaseCode string
	BatchCode   string
	Documents   map[string]string // kind → certificate number
	ReleasedBy  string
	ReleasedAt  time.Time
	ArchiveKey  string
}

func newDocumentRelease(batchCode, releasedBy string, now time.Time) *DocumentRelease {
	return &DocumentRelease{
		ID:          uuid.New(),
		ReleaseCode: newCode("REL", now),
		BatchCode:   batchCode,
		Documents: map[string]string{
			DocPhytosanitary: newCode("PHY", now),
			DocOrigin:        newCode("COO", now),
			DocDueDiligence:  newCode("DDS", now),
			DocExportPermit:  newCode("EXP", now),
		},
		ReleasedBy: releasedBy,
		ReleasedAt: now,
	}
}
