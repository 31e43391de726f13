package numbering

import (
	"fmt"
	"time"
)

// Default prefixes used when no policy row exists for an organization.
// These mirror the document vocabulary of the product (French market):
// facture, devis, bon de livraison, avoir, commande.
var defaultPrefixes = map[DocumentType]string{
	DocumentTypeInvoice:       "FAC",
	DocumentTypeQuote:         "DEVIS",
	DocumentTypeDeliveryNote:  "BL",
	DocumentTypeCreditNote:    "AVOIR",
	DocumentTypePurchaseOrder: "CMD",
}

// DefaultPrefix returns the built-in prefix for a document type.
// Unknown types fall back to "DOC" so a number is always producible.
func DefaultPrefix(docType DocumentType) string {
	if p, ok := defaultPrefixes[docType]; ok {
		return p
	}
	return "DOC"
}

// FallbackNumber synthesizes a statically formatted default number used when
// the policy lookup or the atomic counter is unavailable. It is a pure
// function of (document type, year): repeated calls within the same year
// return the identical string, and no counter state is consulted or mutated.
//
// The returned value is a suggestion, not a reserved slot - persistence must
// still reject duplicates.
func FallbackNumber(docType DocumentType, now time.Time) string {
	return fmt.Sprintf("%s-%d-0001", DefaultPrefix(docType), now.Year())
}
