package mail

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/exportdesk/exportdesk/internal/api/models"
)

// DraftType selects which correspondence template to fill.
type DraftType string

// Draft types for the three standard customs mails.
const (
	DraftAuftrag DraftType = "auftrag"
	DraftABD     DraftType = "abd"
	DraftAGV     DraftType = "agv"
)

// ParseDraftType validates a draft type from request input.
func ParseDraftType(s string) (DraftType, error) {
	switch DraftType(s) {
	case DraftAuftrag, DraftABD, DraftAGV:
		return DraftType(s), nil
	}
	return "", fmt.Errorf("unknown draft type %q", s)
}

// DraftData carries the case fields the templates interpolate.
type DraftData struct {
	Kunde           string
	Land            string
	Rechnungsnummer string
	MRN             string
	Attachments     []models.EmailAttachment
}

// Template fallbacks for cases without form data.
const (
	fallbackKunde   = "Kunde"
	fallbackInvoice = "Unbekannt"
	fallbackLand    = "–"
)

// BuildDraft fills the template for the given type and returns the
// draft including a mailto URL for the desktop mail client.
func BuildDraft(typ DraftType, d DraftData, now time.Time) (*models.EmailDraft, error) {
	kunde := d.Kunde
	if kunde == "" {
		kunde = fallbackKunde
	}
	rechnungsnummer := d.Rechnungsnummer
	if rechnungsnummer == "" {
		rechnungsnummer = fallbackInvoice
	}
	land := d.Land
	if land == "" {
		land = fallbackLand
	}
	landKuerzel := strings.ToUpper(land)
	if len([]rune(landKuerzel)) > 2 {
		landKuerzel = string([]rune(landKuerzel)[:2])
	}

	var subject, body string
	switch typ {
	case DraftAuftrag:
		datum := formatGermanDate(nextInspectionDay(now))
		subject = fmt.Sprintf("Ausfuhranmeldung %s, %s – %s", kunde, landKuerzel, rechnungsnummer)
		body = "Lieber Kunde,\r\n\r\n" +
			"vielen Dank für die Beauftragung.\r\n\r\n" +
			fmt.Sprintf("Die eventuelle Zollbeschau wurde soeben für %s von 10:00 bis 12:00 Uhr angemeldet. "+
				"Im Anschluss sende ich Ihnen das Zolldokument.", datum)
	case DraftABD:
		subject = fmt.Sprintf("👉🏼 ABD %s, %s – %s, MRN %s", kunde, landKuerzel, rechnungsnummer, d.MRN)
		body = "Lieber Kunde,\r\n\r\n" +
			"anbei erhalten Sie das Ausfuhrbegleitdokument, welches zusammen mit der Handelsrechnung " +
			"an der Handelsware angebracht werden muss bzw. an der Zollausgangsstelle vorgezeigt werden muss.\r\n\r\n" +
			"Nachdem die Ware die EU verlassen hat, erhalten Sie den Ausgangsvermerk."
	case DraftAGV:
		subject = fmt.Sprintf("✅ AGV %s, %s – %s, MRN %s", kunde, landKuerzel, rechnungsnummer, d.MRN)
		body = "Lieber Kunde,\r\n\r\n" +
			"anbei erhalten Sie den Ausgangsvermerk für Ihre Unterlagen bzw. zur Vorlage bei den Finanzbehörden."
	default:
		return nil, fmt.Errorf("unknown draft type %q", typ)
	}

	return &models.EmailDraft{
		Typ:         string(typ),
		Subject:     subject,
		Body:        body,
		Mailto:      "mailto:?subject=" + escapeMailto(subject) + "&body=" + escapeMailto(body),
		Attachments: d.Attachments,
	}, nil
}

// nextInspectionDay returns the next business day a customs inspection
// can be scheduled for. Inspections never run on weekends or Mondays,
// so Friday through Monday all roll over to Tuesday.
func nextInspectionDay(now time.Time) time.Time {
	switch now.Weekday() {
	case time.Friday:
		return now.AddDate(0, 0, 4)
	case time.Saturday:
		return now.AddDate(0, 0, 3)
	case time.Sunday:
		return now.AddDate(0, 0, 2)
	default:
		// Monday rolls to Tuesday like any other next day.
		return now.AddDate(0, 0, 1)
	}
}

var germanWeekdays = [...]string{
	"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag",
}

func formatGermanDate(t time.Time) string {
	return germanWeekdays[t.Weekday()] + ", " + t.Format("02.01.2006")
}

// escapeMailto percent-encodes a template value for use in a mailto
// URL. QueryEscape's plus-for-space form confuses mail clients, so
// spaces become %20.
func escapeMailto(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
