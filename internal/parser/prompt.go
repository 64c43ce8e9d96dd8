package parser

import "strings"

// BuildWaybillPrompt returns the extraction prompt for a Peruvian electronic
// transport waybill. The model must answer with a single JSON object whose
// keys match recon.Extraction; unknown fields are null, never guessed.
func BuildWaybillPrompt() string {
	return strings.TrimSpace(`
You are extracting fields from a Peruvian electronic transport waybill
(guía de remisión electrónica). Read the document carefully and return ONLY
a JSON object with exactly these keys:

{
  "valid_document": true if this is a transport waybill, false otherwise,
  "code": "waybill code printed after ELECTRONICA, e.g. T001-4821",
  "issue_date": "emission date as printed (FECHA DE EMISION)",
  "month": "month of the emission date in Spanish, uppercase",
  "week": "ISO week number of the emission date, as a string",
  "driver_name": "full name of the main driver (CONDUCTOR PRINCIPAL)",
  "plate": "plate of the main vehicle (VEHICULO PRINCIPAL)",
  "carrier_name": "transport company name, if printed",
  "gross_weight": gross weight in tonnes as a number (PESO BRUTO TOTAL TNE),
  "received_weight": received weight in tonnes as a number, if printed,
  "sender_code": "sender waybill code (GUIA REMITENTE), if printed",
  "client": "sender company name (DENOMINACION)",
  "origin": "PUNTO DE PARTIDA as DEPARTMENT-PROVINCE-DISTRICT",
  "destination": "PUNTO DE LLEGADA as DEPARTMENT-PROVINCE-DISTRICT",
  "material": "description of the transported goods"
}

Rules:
- If the document is not a transport waybill, set valid_document to false
  and every other field to null.
- Copy values verbatim from the document. Do not invent or complete values.
- Use null for any field that is not printed on the document.
- Locations: keep only the department, province and district names joined
  with hyphens, dropping ubigeo codes and street addresses.
- Weights are plain numbers without thousands separators.
Return only the JSON object, no commentary.`)
}

// BuildRetryPrompt returns a stricter prompt for a second pass over the same
// document, listing the fields the first pass left empty. When the source
// text is available it is inlined so the model can quote it directly.
func BuildRetryPrompt(missing []string, sourceText string) string {
	var sb strings.Builder
	sb.WriteString(BuildWaybillPrompt())
	sb.WriteString("\n\nA previous pass failed to find these fields: ")
	sb.WriteString(strings.Join(missing, ", "))
	sb.WriteString(".\nLook specifically for them. Quote the document exactly; if a field truly is not printed, keep it null.")
	if sourceText != "" {
		sb.WriteString("\n\nThe document's text layer, for reference:\n")
		sb.WriteString(sourceText)
	}
	return sb.String()
}
