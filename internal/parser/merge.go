package parser

import "remitra/internal/recon"

// MergeMissing copies fields from a retry extraction onto the primary one,
// filling only fields the primary pass left nil. The first answer wins for
// everything it found; retries exist to recover gaps, not to second-guess.
func MergeMissing(primary, retry recon.Extraction) recon.Extraction {
	out := primary
	if out.Code == nil {
		out.Code = retry.Code
	}
	if out.IssueDate == nil {
		out.IssueDate = retry.IssueDate
	}
	if out.Month == nil {
		out.Month = retry.Month
	}
	if out.Week == nil {
		out.Week = retry.Week
	}
	if out.DriverName == nil {
		out.DriverName = retry.DriverName
	}
	if out.Plate == nil {
		out.Plate = retry.Plate
	}
	if out.CarrierName == nil {
		out.CarrierName = retry.CarrierName
	}
	if out.GrossWeight == nil {
		out.GrossWeight = retry.GrossWeight
	}
	if out.ReceivedWeight == nil {
		out.ReceivedWeight = retry.ReceivedWeight
	}
	if out.SenderCode == nil {
		out.SenderCode = retry.SenderCode
	}
	if out.Client == nil {
		out.Client = retry.Client
	}
	if out.Origin == nil {
		out.Origin = retry.Origin
	}
	if out.Destination == nil {
		out.Destination = retry.Destination
	}
	if out.Material == nil {
		out.Material = retry.Material
	}
	return out
}

// MissingCritical lists the critical fields an extraction still lacks.
// A document missing any of these gets one stricter retry pass.
func MissingCritical(e recon.Extraction) []string {
	var missing []string
	if e.Code == nil {
		missing = append(missing, "code")
	}
	if e.Client == nil {
		missing = append(missing, "client")
	}
	if e.Plate == nil {
		missing = append(missing, "plate")
	}
	if e.DriverName == nil {
		missing = append(missing, "driver_name")
	}
	if e.GrossWeight == nil {
		missing = append(missing, "gross_weight")
	}
	if e.Origin == nil {
		missing = append(missing, "origin")
	}
	if e.Destination == nil {
		missing = append(missing, "destination")
	}
	return missing
}
