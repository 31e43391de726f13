package notification

import (
	"context"
	"fmt"

	"github.com/facturio/backend/internal/application/billing"
	"github.com/facturio/backend/internal/domain/numbering"
	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PDFRenderer renders a document page into a PDF byte stream
type PDFRenderer interface {
	RenderDocument(ctx context.Context, ref billing.DocumentRef) ([]byte, error)
}

// ObjectStorage persists rendered documents and returns a retrievable key
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key string) (string, error)
}

// EmailMessage is an outbound email with an optional PDF attachment
type EmailMessage struct {
	To             string
	Subject        string
	HTML           string
	AttachmentName string
	Attachment     []byte
}

// EmailSender delivers transactional email
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// Service renders a document to PDF, archives it and emails it to the
// document's recipient. It implements billing.DocumentNotifier.
type Service struct {
	renderer     PDFRenderer
	storage      ObjectStorage
	mailer       EmailSender
	clientRepo   partner.ClientRepository
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewService creates a new notification Service
func NewService(
	renderer PDFRenderer,
	storage ObjectStorage,
	mailer EmailSender,
	clientRepo partner.ClientRepository,
	supplierRepo partner.SupplierRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		renderer:     renderer,
		storage:      storage,
		mailer:       mailer,
		clientRepo:   clientRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

var _ billing.DocumentNotifier = (*Service)(nil)

// SendDocument renders the referenced document, stores the PDF and emails
// it to the recipient. Storage failure is logged and does not block the
// email; a missing recipient email is an error.
func (s *Service) SendDocument(ctx context.Context, ref billing.DocumentRef) error {
	email, recipientName, err := s.recipientAddress(ctx, ref)
	if err != nil {
		return err
	}
	if email == "" {
		return shared.NewDomainError("NO_RECIPIENT_EMAIL", "Recipient has no email address")
	}

	pdf, err := s.renderer.RenderDocument(ctx, ref)
	if err != nil {
		return fmt.Errorf("render %s %s: %w", ref.DocumentType, ref.Number, err)
	}

	key := fmt.Sprintf("%s/%s/%s.pdf", ref.OrganizationID, ref.DocumentType, ref.Number)
	if err := s.storage.Put(ctx, key, pdf, "application/pdf"); err != nil {
		s.logger.Warn("failed to archive document PDF",
			zap.String("key", key),
			zap.Error(err))
	}

	msg := EmailMessage{
		To:             email,
		Subject:        subjectFor(ref),
		HTML:           bodyFor(ref, recipientName),
		AttachmentName: ref.Number + ".pdf",
		Attachment:     pdf,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s %s: %w", ref.DocumentType, ref.Number, err)
	}

	s.logger.Info("document sent",
		zap.String("organization_id", ref.OrganizationID.String()),
		zap.String("document_type", string(ref.DocumentType)),
		zap.String("number", ref.Number),
		zap.String("recipient", email))
	return nil
}

// recipientAddress resolves the recipient's email. Purchase orders go to
// suppliers, every other document goes to a client.
func (s *Service) recipientAddress(ctx context.Context, ref billing.DocumentRef) (email, name string, err error) {
	if ref.DocumentType == numbering.DocumentTypePurchaseOrder {
		sup, err := s.supplierRepo.FindByIDForOrganization(ctx, ref.OrganizationID, ref.RecipientID)
		if err != nil {
			return "", "", err
		}
		return sup.Email, sup.Name, nil
	}
	c, err := s.clientRepo.FindByIDForOrganization(ctx, ref.OrganizationID, ref.RecipientID)
	if err != nil {
		return "", "", err
	}
	return c.Email, c.Name, nil
}

func subjectFor(ref billing.DocumentRef) string {
	switch ref.DocumentType {
	case numbering.DocumentTypeInvoice:
		return fmt.Sprintf("Facture %s", ref.Number)
	case numbering.DocumentTypeQuote:
		return fmt.Sprintf("Devis %s", ref.Number)
	case numbering.DocumentTypeDeliveryNote:
		return fmt.Sprintf("Bon de livraison %s", ref.Number)
	case numbering.DocumentTypeCreditNote:
		return fmt.Sprintf("Avoir %s", ref.Number)
	case numbering.DocumentTypePurchaseOrder:
		return fmt.Sprintf("Bon de commande %s", ref.Number)
	default:
		return fmt.Sprintf("Document %s", ref.Number)
	}
}

func bodyFor(ref billing.DocumentRef, recipientName string) string {
	return fmt.Sprintf(
		"<p>Bonjour %s,</p><p>Veuillez trouver ci-joint le document <strong>%s</strong>.</p><p>Cordialement</p>",
		recipientName, ref.Number)
}
