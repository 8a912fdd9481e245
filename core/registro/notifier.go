package registro

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"net/url"

	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
)

// Accion selects what the dispatcher does with the freshly rendered receipt.
type Accion string

const (
	AccionGenerate Accion = "generate"
	AccionSend     Accion = "send"
	AccionDownload Accion = "download"
)

var ErrAccionInvalida = errors.New("acción inválida")

// Resultado is the dispatch outcome. EmailSent=false is not fatal: the record
// and the PDF exist regardless of delivery, so Success stays true and the
// caller decides the UI messaging.
type Resultado struct {
	Success       bool   `json:"success"`
	RegistroID    int    `json:"registroId"`
	EmailSent     bool   `json:"emailSent"`
	EmailError    string `json:"emailError"`
	CorreoEnviado string `json:"correoEnviado"`
	WhatsappLink  string `json:"whatsappLink"`
	PDFFileName   string `json:"pdfFileName"`
}

// Notifier re-renders the receipt on every call (no caching, so it always
// reflects the latest edits) and optionally emails it.
type Notifier struct {
	svc      *Service
	renderer ReceiptRenderer
	mail     core.EmailService // nil when no delivery credential is configured
	logger   core.Logger
}

func NewNotifier(svc *Service, renderer ReceiptRenderer, mailSvc core.EmailService, logger core.Logger) *Notifier {
	return &Notifier{svc: svc, renderer: renderer, mail: mailSvc, logger: logger}
}

// Render fetches the record and renders its receipt; it backs the inline view.
func (n *Notifier) Render(ctx context.Context, id int) (Registro, []byte, error) {
	reg, err := n.svc.GetByID(ctx, id)
	if err != nil {
		return Registro{}, nil, err
	}
	pdf, err := n.renderer.Comprobante(reg)
	if err != nil {
		return Registro{}, nil, errors.Wrap(err, "rendering comprobante")
	}
	return reg, pdf, nil
}

// Dispatch handles the generate/send/download actions. The returned bytes are
// only meant for AccionDownload; for the other actions the caller uses the
// Resultado. A delivery failure is surfaced in Resultado.EmailError, never as
// an error return.
func (n *Notifier) Dispatch(ctx context.Context, id int, accion Accion) (Resultado, []byte, error) {
	switch accion {
	case AccionGenerate, AccionSend, AccionDownload:
	case "":
		accion = AccionGenerate
	default:
		return Resultado{}, nil, ErrAccionInvalida
	}

	reg, pdf, err := n.Render(ctx, id)
	if err != nil {
		return Resultado{}, nil, err
	}

	res := Resultado{
		Success:       true,
		RegistroID:    reg.ID,
		CorreoEnviado: reg.CorreoElectronico,
		WhatsappLink:  WhatsappLink(reg),
		PDFFileName:   PDFFileName(reg),
	}

	if accion == AccionDownload {
		return res, pdf, nil
	}

	switch {
	case n.mail == nil:
		res.EmailError = core.ErrMailNotConfigured.Error()
	case reg.CorreoElectronico == "":
		res.EmailError = "El registro no tiene correo electrónico"
	default:
		if err := n.sendEmail(reg, pdf, res.PDFFileName); err != nil {
			res.EmailError = err.Error()
			n.logger.Error(fmt.Sprintf("enviando comprobante %d: %v", reg.ID, err), err)
		} else {
			res.EmailSent = true
		}
	}

	return res, pdf, nil
}

func (n *Notifier) sendEmail(reg Registro, pdf []byte, filename string) error {
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: reg.NombreCompleto(), Address: reg.CorreoElectronico}},
		Subject:      fmt.Sprintf("✅ Comprobante de Inscripción - %s (Folio #%d)", AcademiaNombre, reg.ID),
		TemplateName: "comprobante",
		TemplateData: struct {
			NombreCompleto string
			Folio          int
			Telefono       string
		}{reg.NombreCompleto(), reg.ID, AcademiaTelefono},
	}
	if err := msg.Attach(bytes.NewReader(pdf), filename, "application/pdf"); err != nil {
		return errors.Wrap(err, "attaching comprobante")
	}
	return n.mail.SendMessage(msg)
}

// WhatsappLink builds the pre-filled messaging deep link with the greeting and
// folio number.
func WhatsappLink(reg Registro) string {
	texto := fmt.Sprintf(
		"¡Hola %s! 🎉\n\nGracias por registrarte en %s.\n\n📋 Tu folio de inscripción es: #%d\n\nTe contactaremos pronto para los siguientes pasos. ¡Gracias!",
		reg.NombreCompleto(), AcademiaNombre, reg.ID,
	)
	return "https://wa.me/52" + reg.TelefonoCelular + "?text=" + url.QueryEscape(texto)
}
